package predict

import (
	"context"
	"path/filepath"

	"genopipe/internal/contig"
	"genopipe/internal/runner"
)

// FragGeneScan writes <id>.gff, .faa, .ffn and .out per assembly, trained
// for complete genomic sequences.
type FragGeneScan struct {
	Exec string
	Dir  string
}

func (f *FragGeneScan) Name() string   { return "FragGeneScan" }
func (f *FragGeneScan) OutDir() string { return f.Dir }

func (f *FragGeneScan) Prepare(_ context.Context, as []contig.Assembly) ([]Unit, error) {
	return wholeAssemblies(as), nil
}

func (f *FragGeneScan) Command(u Unit) runner.Invocation {
	return runner.Invocation{
		Name: orDefault(f.Exec, "run_FragGeneScan.pl"),
		Args: []string{
			"-genome=" + u.Input,
			"-out=" + filepath.Join(f.Dir, u.Stem),
			"-complete=1",
			"-train=complete",
		},
		Dir: f.Dir,
	}
}

func (f *FragGeneScan) Done(Unit) error                                 { return nil }
func (f *FragGeneScan) Finish(context.Context, []contig.Assembly) error { return nil }
