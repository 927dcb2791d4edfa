// internal/writers/stage.go
package writers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"genopipe/internal/jsonlutil"
	"genopipe/internal/jsonutil"
	"genopipe/pkg/api"
)

// StageResult is the outcome of one comparative stage.
type StageResult struct {
	Stage       string
	Status      string // ok | failed | skipped
	Elapsed     time.Duration
	Invocations int
	Outputs     []string
	Err         error
}

func init() {
	RegisterStage("text", writeStageText)
	RegisterStage("json", writeStageJSON)
	RegisterStage("jsonl", writeStageJSONL)
}

// ToAPIStage converts r to the v1 wire schema.
func ToAPIStage(r StageResult) api.StageV1 {
	out := api.StageV1{
		Stage:          r.Stage,
		Status:         r.Status,
		ElapsedSeconds: r.Elapsed.Seconds(),
		Invocations:    r.Invocations,
		Outputs:        r.Outputs,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

var statusColor = map[string]*color.Color{
	"ok":      color.New(color.FgGreen),
	"failed":  color.New(color.FgRed, color.Bold),
	"skipped": color.New(color.FgYellow),
}

// writeStageText lays the table out on plain text, then colours the status
// cells; escape codes inside a tabwriter cell would skew column widths.
func writeStageText(w io.Writer, in <-chan StageResult) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tSTATUS\tELAPSED\tRUNS\tOUTPUT")
	var statuses []string
	for r := range in {
		out := strings.Join(r.Outputs, ",")
		if r.Err != nil {
			out = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.Stage, r.Status,
			r.Elapsed.Round(time.Millisecond), r.Invocations, out)
		statuses = append(statuses, r.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.SplitAfter(buf.String(), "\n")
	col := strings.Index(lines[0], "STATUS")
	for i, st := range statuses {
		line := lines[i+1]
		c, ok := statusColor[st]
		if !ok || col < 0 || len(line) < col+len(st) || line[col:col+len(st)] != st {
			continue
		}
		lines[i+1] = line[:col] + c.Sprint(st) + line[col+len(st):]
	}
	_, err := io.WriteString(w, strings.Join(lines, ""))
	return err
}

func writeStageJSON(w io.Writer, in <-chan StageResult) error {
	all := []api.StageV1{}
	for r := range in {
		all = append(all, ToAPIStage(r))
	}
	return jsonutil.EncodePretty(w, all)
}

func writeStageJSONL(w io.Writer, in <-chan StageResult) error {
	enc, done := jsonlutil.Start[StageResult](w, 16,
		func(e *json.Encoder, r StageResult) error { return e.Encode(ToAPIStage(r)) },
		IsBrokenPipe,
	)
	for r := range in {
		enc <- r
	}
	close(enc)
	return <-done
}
