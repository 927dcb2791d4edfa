package predict

import (
	"context"

	"genopipe/internal/contig"
	"genopipe/internal/runner"
)

// Prodigal writes <id>.gff, <id>.faa and <id>.fna per assembly.
type Prodigal struct {
	Exec string
	Dir  string
}

func (p *Prodigal) Name() string   { return "Prodigal" }
func (p *Prodigal) OutDir() string { return p.Dir }

func (p *Prodigal) Prepare(_ context.Context, as []contig.Assembly) ([]Unit, error) {
	return wholeAssemblies(as), nil
}

func (p *Prodigal) Command(u Unit) runner.Invocation {
	return runner.Invocation{
		Name: orDefault(p.Exec, "prodigal"),
		Args: []string{"-f", "gff", "-i", u.Input,
			"-o", u.Stem + ".gff", "-a", u.Stem + ".faa", "-d", u.Stem + ".fna"},
		Dir: p.Dir,
	}
}

func (p *Prodigal) Done(Unit) error                                 { return nil }
func (p *Prodigal) Finish(context.Context, []contig.Assembly) error { return nil }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
