// internal/comparativeapp/stages.go
package comparativeapp

import (
	"context"
	"fmt"
	"strings"

	"genopipe/internal/appcore"
	"genopipe/internal/distance"
	"genopipe/internal/oneshot"
)

// outcome is what a stage reports back besides its error.
type outcome struct {
	invocations int
	outputs     []string
}

type stage struct {
	name string
	run  func(ctx context.Context, env *appcore.Env) (outcome, error)
}

// stages in their default run order.
var stages = []stage{
	{"fastani", runFastANI},
	{"clustermap", runClustermap},
	{"skani", runSkani},
	{"mlst", runMLST},
	{"parsnp", runParsnp},
}

func lookup(name string) (stage, bool) {
	for _, s := range stages {
		if s.name == name {
			return s, true
		}
	}
	return stage{}, false
}

func stageNames() string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.name
	}
	return strings.Join(names, ", ")
}

// selectStages resolves names to stages, keeping the order given.
func selectStages(names []string) ([]stage, error) {
	var out []stage
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		s, ok := lookup(n)
		if !ok {
			return nil, fmt.Errorf("unknown stage %q (want one of %s)", n, stageNames())
		}
		seen[n] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no stages selected")
	}
	return out, nil
}

func runFastANI(ctx context.Context, env *appcore.Env) (outcome, error) {
	cfg := env.Config
	fa := cfg.Comparative.FastANI
	res, err := distance.Run(ctx, distance.Config{
		Method:    distance.FastANI(cfg.Exec.FastANI),
		InputDir:  fa.DataDir,
		Pattern:   cfg.Comparative.Pattern,
		OutDir:    fa.OutDir,
		Report:    fa.Report,
		Jobs:      cfg.Jobs,
		SkipEmpty: cfg.SkipEmpty,
		Timeout:   cfg.Timeout,
		Launcher:  env.Launcher,
		Logger:    env.Log,
	})
	return outcome{invocations: res.Pairs, outputs: []string{fa.Report}}, err
}

func runClustermap(ctx context.Context, env *appcore.Env) (outcome, error) {
	cfg := env.Config
	cm := cfg.Comparative.Clustermap
	_, err := oneshot.Clustermap{
		Exec:       cfg.Exec.ANIclustermap,
		Input:      cm.Input,
		Output:     cm.Output,
		FigWidth:   cm.FigWidth,
		FigHeight:  cm.FigHeight,
		Annotation: cm.Annotation,
		Timeout:    cfg.Timeout,
	}.Run(ctx, env.Launcher)
	return outcome{invocations: 1, outputs: []string{cm.Output}}, err
}

// runSkani runs the pairwise skani distances, then the all-vs-all matrix
// and its optional plot.
func runSkani(ctx context.Context, env *appcore.Env) (outcome, error) {
	cfg := env.Config
	sk := cfg.Comparative.Skani
	res, err := distance.Run(ctx, distance.Config{
		Method:    distance.Skani(cfg.Exec.Skani, sk.Threads),
		InputDir:  sk.DataDir,
		Pattern:   cfg.Comparative.Pattern,
		OutDir:    sk.OutDir,
		Report:    sk.Report,
		Jobs:      cfg.Jobs,
		SkipEmpty: cfg.SkipEmpty,
		Timeout:   cfg.Timeout,
		Launcher:  env.Launcher,
		Logger:    env.Log,
	})
	o := outcome{invocations: res.Pairs, outputs: []string{sk.Report}}
	if err != nil {
		return o, err
	}

	err = distance.Triangle(ctx, distance.TriangleConfig{
		Exec:       cfg.Exec.Skani,
		InputDir:   sk.TriangleDir,
		Matrix:     sk.Matrix,
		Python:     cfg.Exec.Python,
		PlotScript: sk.PlotScript,
		Timeout:    cfg.Timeout,
		Launcher:   env.Launcher,
		Logger:     env.Log,
	})
	o.invocations++
	if sk.PlotScript != "" {
		o.invocations++
	}
	o.outputs = append(o.outputs, sk.Matrix)
	return o, err
}

func runMLST(ctx context.Context, env *appcore.Env) (outcome, error) {
	cfg := env.Config
	out := cfg.Comparative.MLST.Output
	_, err := oneshot.MLST{
		Exec:     cfg.Exec.MLST,
		InputDir: cfg.Comparative.AssemblyDir,
		Pattern:  cfg.Comparative.Pattern,
		Output:   out,
		Timeout:  cfg.Timeout,
	}.Run(ctx, env.Launcher)
	return outcome{invocations: 1, outputs: []string{out}}, err
}

func runParsnp(ctx context.Context, env *appcore.Env) (outcome, error) {
	cfg := env.Config
	p := cfg.Comparative.Parsnp
	_, err := oneshot.Parsnp{
		Exec:      cfg.Exec.Parsnp,
		Reference: p.Reference,
		GenomeDir: cfg.Comparative.AssemblyDir,
		OutDir:    p.OutDir,
		Timeout:   cfg.Timeout,
	}.Run(ctx, env.Launcher)
	return outcome{invocations: 1, outputs: []string{p.OutDir}}, err
}
