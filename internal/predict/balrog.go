package predict

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"genopipe/internal/contig"
	"genopipe/internal/fasta"
	"genopipe/internal/pipeerr"
	"genopipe/internal/runner"
)

// Balrog predicts per contig. Prepare splits every assembly into one FASTA
// per record in a scratch directory under Dir; balrog runs there and writes
// each record's GFF as <stem>_<n>.gff, and Finish concatenates them, in
// record order, into Dir/<id>.gff. A failed batch leaves no parts in Dir.
type Balrog struct {
	Exec string
	Dir  string

	scratch string
}

func (b *Balrog) Name() string   { return "Balrog" }
func (b *Balrog) OutDir() string { return b.Dir }

func (b *Balrog) Prepare(ctx context.Context, as []contig.Assembly) ([]Unit, error) {
	dir, err := filepath.Abs(b.Dir)
	if err != nil {
		return nil, err
	}
	b.scratch = filepath.Join(dir, ".split-"+uuid.NewString())
	var units []Unit
	for _, a := range as {
		parts, err := fasta.Split(ctx, a.Path, a.Stem(), b.scratch)
		if err != nil {
			os.RemoveAll(b.scratch)
			return nil, err
		}
		for _, p := range parts {
			stem := filepath.Base(p)
			stem = stem[:len(stem)-len(filepath.Ext(stem))]
			units = append(units, Unit{ID: a.ID, Input: p, Stem: stem})
		}
	}
	return units, nil
}

func (b *Balrog) Command(u Unit) runner.Invocation {
	return runner.Invocation{
		Name: orDefault(b.Exec, "balrog"),
		Args: []string{"-i", u.Input, "--mmseqs", "-o", u.Stem + ".gff"},
		Dir:  b.workDir(),
	}
}

func (b *Balrog) workDir() string {
	if b.scratch == "" {
		return b.Dir
	}
	return b.scratch
}

// Done removes the split record once balrog has consumed it.
func (b *Balrog) Done(u Unit) error { return os.Remove(u.Input) }

// Finish reassembles the per-record GFFs of every assembly.
func (b *Balrog) Finish(_ context.Context, as []contig.Assembly) error {
	for _, a := range as {
		parts, err := fasta.Parts(b.workDir(), a.Stem(), ".gff")
		if err != nil {
			return err
		}
		if len(parts) == 0 {
			return &pipeerr.ArtifactError{Stage: "balrog", Path: filepath.Join(b.workDir(), a.Stem()+"_*.gff")}
		}
		if err := fasta.Reassemble(filepath.Join(b.Dir, a.ID+".gff"), parts); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup removes the scratch directory with any split records and
// per-record GFFs left in it.
func (b *Balrog) Cleanup() error {
	if b.scratch == "" {
		return nil
	}
	err := os.RemoveAll(b.scratch)
	b.scratch = ""
	return err
}
