// Package predict runs gene predictors over a set of assemblies, one process
// at a time, and reports the resources each tool consumed.
package predict

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"genopipe/internal/contig"
	"genopipe/internal/runner"
)

// Unit is the input of one predictor invocation: a whole assembly, or a
// single record of one for per-contig tools.
type Unit struct {
	ID    string // contig ID of the owning assembly
	Input string
	Stem  string // output stem inside the tool's output directory
}

// Predictor is one gene-prediction tool.
//
// RunBatch calls Prepare once, Command and Done once per unit in order, and
// Finish once after the last unit.
type Predictor interface {
	Name() string
	OutDir() string
	Prepare(ctx context.Context, assemblies []contig.Assembly) ([]Unit, error)
	Command(u Unit) runner.Invocation
	Done(u Unit) error
	Finish(ctx context.Context, assemblies []contig.Assembly) error
}

// Tool names accepted by New, in their default run order.
const (
	ToolProdigal     = "prodigal"
	ToolFragGeneScan = "fraggenescan"
	ToolBalrog       = "balrog"
)

// Tools lists every supported predictor in default order.
var Tools = []string{ToolProdigal, ToolFragGeneScan, ToolBalrog}

// New returns the predictor named tool writing into outDir. exec "" selects
// the tool's usual executable name.
func New(tool, exec, outDir string) (Predictor, error) {
	switch strings.ToLower(tool) {
	case ToolProdigal:
		return &Prodigal{Exec: exec, Dir: outDir}, nil
	case ToolFragGeneScan, "fgs":
		return &FragGeneScan{Exec: exec, Dir: outDir}, nil
	case ToolBalrog:
		return &Balrog{Exec: exec, Dir: outDir}, nil
	}
	return nil, fmt.Errorf("unknown predictor %q (want one of %s)", tool, strings.Join(Tools, ", "))
}

// ParseTools splits a comma-separated tool list, validating each name and
// keeping the order given. Duplicates are dropped.
func ParseTools(list string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(list, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if f == "fgs" {
			f = ToolFragGeneScan
		}
		if i := sort.SearchStrings(sortedTools, f); i == len(sortedTools) || sortedTools[i] != f {
			return nil, fmt.Errorf("unknown predictor %q (want one of %s)", f, strings.Join(Tools, ", "))
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no predictors selected")
	}
	return out, nil
}

var sortedTools = func() []string {
	s := append([]string(nil), Tools...)
	sort.Strings(s)
	return s
}()

// wholeAssemblies is the Prepare of tools that take one assembly per run.
func wholeAssemblies(assemblies []contig.Assembly) []Unit {
	units := make([]Unit, len(assemblies))
	for i, a := range assemblies {
		units[i] = Unit{ID: a.ID, Input: a.Path, Stem: a.ID}
	}
	return units
}
