// Package distance runs a pairwise genome-distance tool over every unordered
// pair of assemblies and aggregates the per-pair results into one report.
package distance

import (
	"path/filepath"
	"strconv"
)

// Method is a pairwise distance estimator and the argument shape it takes.
type Method struct {
	Name    string // "fastANI", "skani"
	Exec    string
	Prefix  string // output file name prefix
	Threads int    // skani only
}

// FastANI returns the fastANI method; exec "" means "fastANI" on $PATH.
func FastANI(exec string) Method {
	if exec == "" {
		exec = "fastANI"
	}
	return Method{Name: "fastANI", Exec: exec, Prefix: "FastANI_Outdir"}
}

// Skani returns the skani dist method.
func Skani(exec string, threads int) Method {
	if exec == "" {
		exec = "skani"
	}
	if threads < 1 {
		threads = 1
	}
	return Method{Name: "skani", Exec: exec, Prefix: "SKANI_Outdir", Threads: threads}
}

// OutputName is the per-pair output file name:
// <prefix>_<base a>_<base b>.txt.
func (m Method) OutputName(a, b string) string {
	return m.Prefix + "_" + filepath.Base(a) + "_" + filepath.Base(b) + ".txt"
}

// Args builds the argument list comparing a against b into out.
func (m Method) Args(a, b, out string) []string {
	if m.Name == "skani" {
		return []string{"dist", a, b, "-t", strconv.Itoa(m.Threads), "-o", out}
	}
	return []string{"-q", a, "-r", b, "-o", out}
}

// Pair is one unordered comparison; A precedes B in discovery order.
type Pair struct {
	A, B string
}

// Pairs enumerates every unordered pair of files exactly once, in
// discovery order: (0,1), (0,2), ..., (1,2), ...
func Pairs(files []string) []Pair {
	n := len(files)
	if n < 2 {
		return nil
	}
	out := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Pair{A: files[i], B: files[j]})
		}
	}
	return out
}
