// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
)

// Writer registries (format → handler). Register in init() blocks from the
// summary and stage writer files. Each handler drains its channel.
var (
	SummaryWriters = map[string]func(w io.Writer, in <-chan ToolSummary) error{}
	StageWriters   = map[string]func(w io.Writer, in <-chan StageResult) error{}
)

// Register helpers (idempotent last-wins)
func RegisterSummary(format string, fn func(io.Writer, <-chan ToolSummary) error) {
	SummaryWriters[format] = fn
}
func RegisterStage(format string, fn func(io.Writer, <-chan StageResult) error) {
	StageWriters[format] = fn
}

// Formats lists the registered summary formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(SummaryWriters))
	for f := range SummaryWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// StartSummaryWriter spins up a writer goroutine for tool summaries.
func StartSummaryWriter(out io.Writer, format string, bufSize int) (chan<- ToolSummary, <-chan error) {
	return start(out, format, bufSize, SummaryWriters, "summary")
}

// StartStageWriter spins up a writer goroutine for stage results.
func StartStageWriter(out io.Writer, format string, bufSize int) (chan<- StageResult, <-chan error) {
	return start(out, format, bufSize, StageWriters, "stage")
}

func start[T any](out io.Writer, format string, bufSize int, reg map[string]func(io.Writer, <-chan T) error, kind string) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 16
	}
	in := make(chan T, bufSize)
	errCh := make(chan error, 1)
	fn, ok := reg[format]
	go func() {
		if !ok {
			for range in {
			}
			errCh <- fmt.Errorf("unknown %s format %q (no writer registered)", kind, format)
			return
		}
		err := fn(out, in)
		for range in {
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()
	return in, errCh
}
