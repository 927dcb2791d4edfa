// internal/fasta/split.go
package fasta

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq"
)

// LineWidth is the residue count per sequence line in split files.
const LineWidth = 60

// Split writes every record of the FASTA file at path to its own file
// <stem>_<n>.fasta in outDir, n counting from 1 in record order. It returns
// the written paths in record order. stem is the base name up to the first
// dot. A file with no records is an error.
func Split(ctx context.Context, path, stem, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	var parts []string
	err := Each(path, func(s seq.Sequence) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := filepath.Join(outDir, PartName(stem, len(parts)+1, ".fasta"))
		if err := writeRecord(out, s); err != nil {
			return err
		}
		parts = append(parts, out)
		return nil
	})
	if err != nil {
		return parts, fmt.Errorf("split %s: %w", path, err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("split %s: no FASTA records", path)
	}
	return parts, nil
}

func writeRecord(path string, s seq.Sequence) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := fasta.NewWriter(fh, LineWidth).Write(s); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// PartName is the file name of part n of stem with the given extension.
func PartName(stem string, n int, ext string) string {
	return stem + "_" + strconv.Itoa(n) + ext
}

// PartIndex parses the numeric suffix of a part file produced for stem.
// ok is false when name does not belong to stem, so "A_1.gff" is not a part
// of "A_1" and "AB_1.gff" is not a part of "A".
func PartIndex(name, stem string) (n int, ok bool) {
	base := filepath.Base(name)
	rest, found := strings.CutPrefix(base, stem+"_")
	if !found {
		return 0, false
	}
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		rest = rest[:i]
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
