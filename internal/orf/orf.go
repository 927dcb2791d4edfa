// Package orf compares gene predictions against a reference annotation with
// ORForise Aggregate-Compare, one run per contig and predictor.
package orf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"genopipe/internal/contig"
	"genopipe/internal/pipeerr"
	"genopipe/internal/pipeline"
	"genopipe/internal/runner"
)

// IDPlaceholder is replaced by the contig ID in prediction patterns.
const IDPlaceholder = "{id}"

// Target is one predictor whose output is compared.
type Target struct {
	Tool        string // label passed to -t, e.g. "Prodigal"
	Predictions string // directory of prediction files
	Pattern     string // file name with {id}, e.g. "{id}.gff"
}

// DefaultTargets are the predictors compared when none are configured.
func DefaultTargets(prodigalDir, fgsDir string) []Target {
	return []Target{
		{Tool: "Prodigal", Predictions: prodigalDir, Pattern: "{id}.gff"},
		{Tool: "FragGeneScan", Predictions: fgsDir, Pattern: "{id}.gff"},
	}
}

// Prediction is the prediction file of id.
func (t Target) Prediction(id string) string {
	return filepath.Join(t.Predictions, strings.ReplaceAll(t.Pattern, IDPlaceholder, id))
}

// Subdir is the output subdirectory of t: "<tool>_orf".
func (t Target) Subdir() string { return strings.ToLower(t.Tool) + "_orf" }

// Config describes one comparison run.
type Config struct {
	Exec       string // default "Aggregate-Compare"
	DNADir     string // contig IDs are derived from this directory
	DNAPattern string // default "*.fasta"
	Reference  string // reference annotation .gff
	OutDir     string
	Targets    []Target
	Jobs       int
	Timeout    time.Duration

	Launcher runner.Launcher
	Logger   *slog.Logger
}

// Job is one Aggregate-Compare invocation.
type Job struct {
	ID     string
	DNA    string
	Target Target
	Output string
}

// Args is the Aggregate-Compare argument list of j.
func (j Job) Args(reference string) []string {
	return []string{"-dna", j.DNA, "-ref", reference,
		"-t", j.Target.Tool, "-tp", j.Target.Prediction(j.ID), "-o", j.Output}
}

// Plan derives the contig IDs from cfg.DNADir and returns one job per ID
// and target, targets outermost. Every prediction file must exist; the
// first missing one is a PathMismatch.
func Plan(cfg Config) ([]Job, error) {
	as, err := contig.Discover(cfg.DNADir, cfg.DNAPattern)
	if err != nil {
		return nil, err
	}
	if len(as) == 0 {
		return nil, fmt.Errorf("orf: no DNA files in %s", cfg.DNADir)
	}
	var jobs []Job
	for _, t := range cfg.Targets {
		for _, a := range as {
			pred := t.Prediction(a.ID)
			if _, err := os.Stat(pred); err != nil {
				return nil, &pipeerr.MismatchError{ID: a.ID, Set: t.Predictions,
					Detail: "no " + t.Tool + " prediction " + filepath.Base(pred)}
			}
			jobs = append(jobs, Job{
				ID:     a.ID,
				DNA:    a.Path,
				Target: t,
				Output: filepath.Join(cfg.OutDir, t.Subdir(), a.ID+"_"+strings.ToLower(t.Tool)+"_orf.csv"),
			})
		}
	}
	return jobs, nil
}

// Run executes every planned job on a pool of cfg.Jobs workers and returns
// the CSV paths written, in plan order.
func Run(ctx context.Context, cfg Config) ([]string, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Exec == "" {
		cfg.Exec = "Aggregate-Compare"
	}
	jobs, err := Plan(cfg)
	if err != nil {
		return nil, err
	}
	for _, t := range cfg.Targets {
		if err := os.MkdirAll(filepath.Join(cfg.OutDir, t.Subdir()), 0o755); err != nil {
			return nil, err
		}
	}
	launcher := runner.Or(cfg.Launcher)
	log.Info("orf comparison", "jobs", len(jobs), "targets", len(cfg.Targets))

	return pipeline.Collect(ctx, pipeline.Config{Workers: cfg.Jobs}, jobs,
		func(ctx context.Context, j Job) (string, error) {
			log.Info("on contig", "id", j.ID, "tool", j.Target.Tool)
			_, err := launcher.Run(ctx, runner.Invocation{
				Name:    cfg.Exec,
				Args:    j.Args(cfg.Reference),
				Timeout: cfg.Timeout,
			})
			if err != nil {
				return "", err
			}
			if _, err := os.Stat(j.Output); err != nil {
				return "", &pipeerr.ArtifactError{Stage: "Aggregate-Compare", Path: j.Output, Err: err}
			}
			return j.Output, nil
		})
}
