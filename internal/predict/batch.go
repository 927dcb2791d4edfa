package predict

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"genopipe/internal/contig"
	"genopipe/internal/runner"
	"genopipe/internal/usage"
)

// LogName is the file in each output directory that receives the tools'
// stdout and stderr.
const LogName = "loginfo"

// Options are shared by every batch of one run.
type Options struct {
	Launcher runner.Launcher
	Logger   *slog.Logger
	Timeout  time.Duration // per invocation; 0 = none

	SampleInterval time.Duration
	SampleCapacity int

	// OutputPattern selects the files whose contig IDs must cover every
	// assembly after the batch. Default "*.gff".
	OutputPattern string
}

// RunBatch runs p over every assembly, strictly one invocation at a time,
// and returns the tool's resource summary.
//
// The CPU sampler covers the invocation loop only; the split pre-pass and
// the reassembly post-pass are not measured. After Finish, the contig IDs
// found in the output directory must include every assembly's ID.
func RunBatch(ctx context.Context, p Predictor, assemblies []contig.Assembly, opt Options) (usage.Summary, error) {
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("tool", p.Name())
	launcher := runner.Or(opt.Launcher)

	if err := os.MkdirAll(p.OutDir(), 0o755); err != nil {
		return usage.Summary{}, err
	}
	logf, err := os.Create(filepath.Join(p.OutDir(), LogName))
	if err != nil {
		return usage.Summary{}, err
	}
	defer logf.Close()

	units, err := p.Prepare(ctx, assemblies)
	if err != nil {
		return usage.Summary{}, fmt.Errorf("%s: prepare: %w", p.Name(), err)
	}
	if c, ok := p.(cleaner); ok {
		defer c.Cleanup()
	}
	log.Info("batch start", "assemblies", len(assemblies), "invocations", len(units), "out", p.OutDir())

	var stats usage.Stats
	sampler := usage.NewSampler(opt.SampleInterval, opt.SampleCapacity)
	start := time.Now()
	sampler.Start()

	for i, u := range units {
		inv := p.Command(u)
		inv.Stdout, inv.Stderr, inv.Timeout = logf, logf, opt.Timeout
		log.Debug("predict", "unit", i+1, "of", len(units), "input", filepath.Base(u.Input))

		res, err := launcher.Run(ctx, inv)
		if err == nil {
			stats.Add(res.Usage)
			err = p.Done(u)
		}
		if err != nil {
			sampler.Stop()
			return stats.Summarize(p.Name(), time.Since(start), 0, false), err
		}
	}

	wall := time.Since(start)
	pct, ok := sampler.Stop()
	sum := stats.Summarize(p.Name(), wall, pct, ok)

	if err := p.Finish(ctx, assemblies); err != nil {
		return sum, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if err := verifyOutputs(p, assemblies, opt.OutputPattern); err != nil {
		return sum, err
	}
	log.Info("batch done", "wall", wall.Round(time.Millisecond), "cpu", sum.CPUString(),
		"time", sum.TimeString(), "memory", sum.MemoryString())
	return sum, nil
}

// cleaner is implemented by predictors that keep scratch files between
// Prepare and Finish.
type cleaner interface {
	Cleanup() error
}

func verifyOutputs(p Predictor, assemblies []contig.Assembly, pattern string) error {
	if pattern == "" {
		pattern = "*.gff"
	}
	have, err := contig.IDsIn(p.OutDir(), pattern)
	if err != nil {
		return err
	}
	return contig.Match(contig.IDs(assemblies), have, p.OutDir())
}
