package distance

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"genopipe/internal/pipeerr"
)

// Aggregation is the outcome of Aggregate.
type Aggregation struct {
	Outputs []string
	Lines   int
	Skipped []string
}

// Aggregate writes the first line of every output, ordered by file name, to
// report, one line each. A missing output is an ArtifactNotFound error; so is
// an empty one unless skipEmpty is set, in which case it is logged and left
// out. The report is only created once every output has been read.
func Aggregate(report string, outputs []string, skipEmpty bool, log *slog.Logger) (Aggregation, error) {
	if log == nil {
		log = slog.Default()
	}
	sorted := append([]string(nil), outputs...)
	sort.Slice(sorted, func(i, j int) bool {
		return filepath.Base(sorted[i]) < filepath.Base(sorted[j])
	})

	agg := Aggregation{}
	var b strings.Builder
	for _, p := range sorted {
		line, err := firstLine(p)
		if err != nil {
			return agg, err
		}
		if line == "" {
			if !skipEmpty {
				return agg, &pipeerr.ArtifactError{Stage: "aggregate", Path: p, Empty: true}
			}
			log.Warn("empty distance output skipped", "path", p)
			agg.Skipped = append(agg.Skipped, p)
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
		agg.Outputs = append(agg.Outputs, p)
		agg.Lines++
	}

	if dir := filepath.Dir(report); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return agg, err
		}
	}
	if err := os.WriteFile(report, []byte(b.String()), 0o644); err != nil {
		return agg, fmt.Errorf("write report: %w", err)
	}
	log.Info("report written", "path", report, "lines", agg.Lines, "skipped", len(agg.Skipped))
	return agg, nil
}

// firstLine returns the first line of path with surrounding space trimmed.
func firstLine(path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &pipeerr.ArtifactError{Stage: "aggregate", Path: path, Err: err}
		}
		return "", err
	}
	defer fh.Close()
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	return "", sc.Err()
}
