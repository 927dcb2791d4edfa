// internal/writers/summary.go
package writers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"genopipe/internal/jsonlutil"
	"genopipe/internal/jsonutil"
	"genopipe/internal/usage"
	"genopipe/pkg/api"
)

// ToolSummary is one predictor's summary and where its outputs went.
type ToolSummary struct {
	usage.Summary
	OutDir string
}

var heading = color.New(color.FgCyan, color.Bold)

func init() {
	RegisterSummary("text", writeSummaryText)
	RegisterSummary("json", writeSummaryJSON)
	RegisterSummary("jsonl", writeSummaryJSONL)
}

// ToAPISummary converts s to the v1 wire schema.
func ToAPISummary(s ToolSummary) api.SummaryV1 {
	out := api.SummaryV1{
		Tool:         s.Tool,
		Invocations:  s.Invocations,
		WallSeconds:  s.Wall.Seconds(),
		WallMinutes:  s.WallMinutes(),
		PeakRSSBytes: s.PeakRSSBytes,
		OutDir:       s.OutDir,
	}
	if s.CPUValid {
		v := s.CPUPercent
		out.CPUPercent = &v
	}
	if s.MeansValid {
		c, m := s.MeanCPU.Seconds(), s.MeanMemory
		out.MeanCPUSeconds, out.MeanMemoryBytes = &c, &m
	}
	return out
}

// writeSummaryText prints each summary as it arrives, the runtime line as
// a coloured heading.
func writeSummaryText(w io.Writer, in <-chan ToolSummary) error {
	for s := range in {
		body := s.String()
		first, rest, _ := strings.Cut(body, "\n")
		if _, err := fmt.Fprintf(w, "\n%s\n%s", heading.Sprint(first), rest); err != nil {
			return err
		}
	}
	return nil
}

func writeSummaryJSON(w io.Writer, in <-chan ToolSummary) error {
	all := []api.SummaryV1{}
	for s := range in {
		all = append(all, ToAPISummary(s))
	}
	return jsonutil.EncodePretty(w, all)
}

func writeSummaryJSONL(w io.Writer, in <-chan ToolSummary) error {
	enc, done := jsonlutil.Start[ToolSummary](w, 16,
		func(e *json.Encoder, s ToolSummary) error { return e.Encode(ToAPISummary(s)) },
		IsBrokenPipe,
	)
	for s := range in {
		enc <- s
	}
	close(enc)
	return <-done
}
