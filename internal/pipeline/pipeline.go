// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls the worker pool.
type Config struct {
	Workers int // max jobs in flight; 0 = all CPUs, 1 = strictly sequential
}

// EffectiveWorkers resolves the 0 = all CPUs convention.
func EffectiveWorkers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// ForEach calls fn for every job with at most cfg.Workers calls running at
// once. Jobs are started in slice order. The first error cancels the
// context handed to the remaining calls, no new jobs are started, and that
// error is returned once every running call has finished.
func ForEach[T any](ctx context.Context, cfg Config, jobs []T, fn func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(EffectiveWorkers(cfg.Workers))

feed:
	for _, j := range jobs {
		select {
		case <-gctx.Done():
			break feed
		default:
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, j)
		})
	}

	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Collect is ForEach for jobs that produce a value. Results are returned in
// job order regardless of completion order; on error the partial results
// are returned alongside it.
func Collect[T, R any](ctx context.Context, cfg Config, jobs []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(jobs))
	idx := make([]int, len(jobs))
	for i := range idx {
		idx[i] = i
	}
	err := ForEach(ctx, cfg, idx, func(ctx context.Context, i int) error {
		r, err := fn(ctx, jobs[i])
		if err != nil {
			return err
		}
		out[i] = r
		return nil
	})
	return out, err
}
