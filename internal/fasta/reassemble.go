// internal/fasta/reassemble.go
package fasta

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Parts returns the files in dir that are numbered parts of stem with the
// given extension, ordered by their numeric suffix.
func Parts(dir, stem, ext string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, globEscape(stem)+"_*"+ext))
	if err != nil {
		return nil, err
	}
	var keep []string
	for _, m := range matches {
		if _, ok := PartIndex(m, stem); ok && filepath.Ext(m) == ext {
			keep = append(keep, m)
		}
	}
	SortParts(keep, stem)
	return keep, nil
}

// SortParts orders part files numerically, so _10 follows _9.
func SortParts(parts []string, stem string) {
	sort.SliceStable(parts, func(i, j int) bool {
		a, _ := PartIndex(parts[i], stem)
		b, _ := PartIndex(parts[j], stem)
		return a < b
	})
}

// Reassemble concatenates parts, in the order given, into out and then
// removes them. out is written through a temp file and renamed, so a failed
// reassembly leaves the parts in place.
func Reassemble(out string, parts []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(out), ".reassemble-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	for _, p := range parts {
		if err := appendFile(tmp, p); err != nil {
			tmp.Close()
			return fmt.Errorf("reassemble %s: %w", out, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return err
	}
	for _, p := range parts {
		if err := os.Remove(p); err != nil {
			return err
		}
	}
	return nil
}

func appendFile(w io.Writer, path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	_, err = io.Copy(w, fh)
	return err
}

func globEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
