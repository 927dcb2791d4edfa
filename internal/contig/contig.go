// internal/contig/contig.go
package contig

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"genopipe/internal/pipeerr"
)

// Assembly is one FASTA file and the contig ID derived from its name.
type Assembly struct {
	ID   string
	Path string
}

// Base returns the file name of the assembly.
func (a Assembly) Base() string { return filepath.Base(a.Path) }

// Stem returns the file name up to its first dot ("A_contigs.fasta.gz" → "A_contigs").
func (a Assembly) Stem() string {
	b := a.Base()
	if i := strings.IndexByte(b, '.'); i > 0 {
		return b[:i]
	}
	return b
}

// ID derives the contig ID from a file name or path: the token before the
// first underscore of the base name. Names without an underscore yield the
// base name up to its first dot, so "A_contigs.fasta" and "A.gff" both
// give "A".
func ID(name string) string {
	b := filepath.Base(name)
	if i := strings.IndexByte(b, '_'); i >= 0 {
		return b[:i]
	}
	if i := strings.IndexByte(b, '.'); i >= 0 {
		return b[:i]
	}
	return b
}

// Discover globs dir for pattern and returns the matches in lexical order.
// An empty ID or two files sharing one ID is a PathMismatch: downstream
// stages key artifacts by ID and would silently overwrite each other.
func Discover(dir, pattern string) ([]Assembly, error) {
	matches, err := Files(dir, pattern)
	if err != nil {
		return nil, err
	}
	return fromPaths(matches, dir)
}

// FromPaths builds assemblies from explicit paths, keeping their order. The
// same ID rules as Discover apply. Relative paths are made absolute: tools
// run in their output directory, not in the caller's.
func FromPaths(paths []string) ([]Assembly, error) {
	abs := make([]string, len(paths))
	for i, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("assembly %s: %w", p, err)
		}
		abs[i] = a
	}
	return fromPaths(abs, "inputs")
}

func fromPaths(paths []string, set string) ([]Assembly, error) {
	out := make([]Assembly, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, m := range paths {
		id := ID(m)
		if id == "" {
			return nil, &pipeerr.MismatchError{ID: id, Set: set, Detail: "empty contig id from " + filepath.Base(m)}
		}
		if prev, dup := seen[id]; dup {
			return nil, &pipeerr.MismatchError{ID: id, Set: set,
				Detail: fmt.Sprintf("shared by %s and %s", filepath.Base(prev), filepath.Base(m))}
		}
		seen[id] = m
		out = append(out, Assembly{ID: id, Path: m})
	}
	return out, nil
}

// Files globs dir for pattern and returns the matches in lexical order
// without deriving IDs. An empty pattern means "*.fasta".
func Files(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.fasta"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// IDs returns the contig IDs of as, in order.
func IDs(as []Assembly) []string {
	ids := make([]string, len(as))
	for i, a := range as {
		ids[i] = a.ID
	}
	return ids
}

// IDsIn derives the set of contig IDs from the files matching pattern in dir.
func IDsIn(dir, pattern string) (map[string]struct{}, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	set := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		set[ID(m)] = struct{}{}
	}
	return set, nil
}

// Match checks that every wanted ID is in have. The first missing ID (in
// the order of want) is reported as a *pipeerr.MismatchError naming setName.
func Match(want []string, have map[string]struct{}, setName string) error {
	for _, id := range want {
		if _, ok := have[id]; !ok {
			return &pipeerr.MismatchError{ID: id, Set: setName}
		}
	}
	return nil
}
