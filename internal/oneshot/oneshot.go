// Package oneshot drives the tools that run exactly once per pipeline:
// clustering, MLST typing and reference-based SNP calling.
//
// Every driver waits for its process and returns the structured result;
// output locations are explicit and the working directory is never changed.
package oneshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"genopipe/internal/contig"
	"genopipe/internal/runner"
)

// Clustermap renders an ANI clustermap from a directory of distance outputs.
type Clustermap struct {
	Exec       string // default "ANIclustermap"
	Input      string
	Output     string
	FigWidth   float64 // default 20
	FigHeight  float64 // default 15
	Annotation bool
	Timeout    time.Duration
}

// Args is the ANIclustermap argument list.
func (c Clustermap) Args() []string {
	w, h := c.FigWidth, c.FigHeight
	if w <= 0 {
		w = 20
	}
	if h <= 0 {
		h = 15
	}
	args := []string{"-i", c.Input, "-o", c.Output,
		"--fig_width", formatFloat(w), "--fig_height", formatFloat(h)}
	if c.Annotation {
		args = append(args, "--annotation")
	}
	return args
}

// Run executes ANIclustermap and waits for it.
func (c Clustermap) Run(ctx context.Context, l runner.Launcher) (runner.Result, error) {
	if err := os.MkdirAll(c.Output, 0o755); err != nil {
		return runner.Result{}, err
	}
	return runner.Or(l).Run(ctx, runner.Invocation{
		Name:    orDefault(c.Exec, "ANIclustermap"),
		Args:    c.Args(),
		Timeout: c.Timeout,
	})
}

// MLST types every assembly with mlst and writes its table to Output.
type MLST struct {
	Exec     string // default "mlst"
	InputDir string
	Pattern  string // default "*.fasta"
	Output   string // mlst.tsv
	Timeout  time.Duration
}

// Args is the mlst argument list: the assemblies themselves.
func (m MLST) Args(assemblies []string) []string {
	return append([]string(nil), assemblies...)
}

// Run executes mlst over the discovered assemblies with stdout redirected
// to m.Output. The table is written through a temp file so a failed run
// leaves no partial output.
func (m MLST) Run(ctx context.Context, l runner.Launcher) (runner.Result, error) {
	files, err := contig.Files(m.InputDir, m.Pattern)
	if err != nil {
		return runner.Result{}, err
	}
	if len(files) == 0 {
		return runner.Result{}, fmt.Errorf("mlst: no assemblies in %s", m.InputDir)
	}
	dir := filepath.Dir(m.Output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return runner.Result{}, err
	}
	tmp, err := os.CreateTemp(dir, ".mlst-*")
	if err != nil {
		return runner.Result{}, err
	}
	defer os.Remove(tmp.Name())

	res, err := runner.Or(l).Run(ctx, runner.Invocation{
		Name:    orDefault(m.Exec, "mlst"),
		Args:    m.Args(files),
		Dir:     dir,
		Stdout:  tmp,
		Timeout: m.Timeout,
	})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return res, err
	}
	return res, os.Rename(tmp.Name(), m.Output)
}

// Parsnp runs core-genome alignment and SNP calling against a reference.
type Parsnp struct {
	Exec      string // default "parsnp"
	Reference string // .gbk
	GenomeDir string
	OutDir    string
	Timeout   time.Duration
}

// Args is the parsnp argument list.
func (p Parsnp) Args() []string {
	return []string{"-g", p.Reference, "-d", p.GenomeDir, "-c", "-o", p.OutDir}
}

// Run executes parsnp in OutDir and waits for it.
func (p Parsnp) Run(ctx context.Context, l runner.Launcher) (runner.Result, error) {
	if err := os.MkdirAll(p.OutDir, 0o755); err != nil {
		return runner.Result{}, err
	}
	return runner.Or(l).Run(ctx, runner.Invocation{
		Name:    orDefault(p.Exec, "parsnp"),
		Args:    p.Args(),
		Dir:     p.OutDir,
		Timeout: p.Timeout,
	})
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
