package distance

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"genopipe/internal/contig"
	"genopipe/internal/runner"
)

// TriangleConfig builds an all-vs-all skani matrix and optionally renders it.
type TriangleConfig struct {
	Exec     string // skani
	InputDir string
	Pattern  string // default "*"
	Matrix   string // stdout of skani triangle is written here

	Python     string // interpreter for PlotScript; default "python"
	PlotScript string // optional; run as <python> <script> <matrix>
	Dir        string // working directory of the plot script; default the matrix dir

	Timeout  time.Duration
	Launcher runner.Launcher
	Logger   *slog.Logger
}

// Triangle runs `skani triangle <genomes...>` with stdout redirected to the
// matrix file, then the plot script when one is configured.
func Triangle(ctx context.Context, cfg TriangleConfig) error {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	exec := cfg.Exec
	if exec == "" {
		exec = "skani"
	}
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = "*"
	}
	genomes, err := contig.Files(cfg.InputDir, pattern)
	if err != nil {
		return err
	}
	if len(genomes) == 0 {
		return fmt.Errorf("skani triangle: no genomes match %s", filepath.Join(cfg.InputDir, pattern))
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Matrix), 0o755); err != nil {
		return err
	}

	fh, err := os.Create(cfg.Matrix)
	if err != nil {
		return err
	}
	launcher := runner.Or(cfg.Launcher)
	log.Info("distance matrix", "genomes", len(genomes), "matrix", cfg.Matrix)
	_, err = launcher.Run(ctx, runner.Invocation{
		Name:    exec,
		Args:    TriangleArgs(genomes),
		Stdout:  fh,
		Timeout: cfg.Timeout,
	})
	if cerr := fh.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if cfg.PlotScript == "" {
		return nil
	}
	py := cfg.Python
	if py == "" {
		py = "python"
	}
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Dir(cfg.Matrix)
	}
	matrix, err := filepath.Abs(cfg.Matrix)
	if err != nil {
		return err
	}
	_, err = launcher.Run(ctx, runner.Invocation{
		Name:    py,
		Args:    []string{cfg.PlotScript, matrix},
		Dir:     dir,
		Timeout: cfg.Timeout,
	})
	return err
}

// TriangleArgs is the skani triangle argument list.
func TriangleArgs(genomes []string) []string {
	return append([]string{"triangle"}, genomes...)
}
