package distance

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"genopipe/internal/contig"
	"genopipe/internal/pipeline"
	"genopipe/internal/runner"
)

// Config describes one pairwise run.
type Config struct {
	Method    Method
	InputDir  string
	Pattern   string // default "*.fasta"
	OutDir    string // per-pair outputs
	Report    string // aggregate report path
	Jobs      int    // 1 = sequential
	SkipEmpty bool
	Timeout   time.Duration

	Launcher runner.Launcher
	Logger   *slog.Logger
}

// Result summarises a finished pairwise run.
type Result struct {
	Method  string
	Inputs  int
	Pairs   int
	Outputs []string // in report order
	Report  string
	Lines   int
	Skipped []string // empty outputs left out of the report (SkipEmpty)
}

// Run compares every unordered pair of assemblies in cfg.InputDir and then
// writes the aggregate report. A failed comparison aborts the run before
// aggregation.
func Run(ctx context.Context, cfg Config) (Result, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	files, err := contig.Files(cfg.InputDir, cfg.Pattern)
	if err != nil {
		return Result{}, err
	}
	pairs := Pairs(files)
	res := Result{Method: cfg.Method.Name, Inputs: len(files), Pairs: len(pairs), Report: cfg.Report}
	log.Info("pairwise distance", "method", cfg.Method.Name, "inputs", len(files), "pairs", len(pairs), "jobs", pipeline.EffectiveWorkers(cfg.Jobs))

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return res, err
	}
	launcher := runner.Or(cfg.Launcher)
	outputs, err := pipeline.Collect(ctx, pipeline.Config{Workers: cfg.Jobs}, pairs,
		func(ctx context.Context, p Pair) (string, error) {
			out := filepath.Join(cfg.OutDir, cfg.Method.OutputName(p.A, p.B))
			log.Info("comparing", "a", filepath.Base(p.A), "b", filepath.Base(p.B))
			_, err := launcher.Run(ctx, runner.Invocation{
				Name:    cfg.Method.Exec,
				Args:    cfg.Method.Args(p.A, p.B, out),
				Timeout: cfg.Timeout,
			})
			return out, err
		})
	if err != nil {
		return res, fmt.Errorf("%s: %w", cfg.Method.Name, err)
	}

	agg, err := Aggregate(cfg.Report, outputs, cfg.SkipEmpty, log)
	res.Outputs, res.Lines, res.Skipped = agg.Outputs, agg.Lines, agg.Skipped
	return res, err
}
