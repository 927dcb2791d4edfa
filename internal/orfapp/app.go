// internal/orfapp/app.go
package orfapp

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"genopipe/internal/appcore"
	"genopipe/internal/cmdutil"
	"genopipe/internal/config"
	"genopipe/internal/orf"
	"genopipe/internal/writers"
)

var keys = map[string]string{
	"dna-dir":     "orf.dna_dir",
	"dna-pattern": "orf.dna_pattern",
	"reference":   "orf.reference",
	"out-dir":     "orf.out_dir",
}

func flags(fs *pflag.FlagSet) {
	fs.String("dna-dir", "", "directory of test contigs; contig IDs come from here (default tests/dna_files)")
	fs.String("dna-pattern", "", "DNA file glob (default *.fasta)")
	fs.String("reference", "", "reference annotation GFF (default orf/genomic.gff)")
	fs.String("out-dir", "", "comparison output root (default orf)")
}

func examples(w io.Writer) {
	fmt.Fprintln(w, "  # compare Prodigal and FragGeneScan output with orf/genomic.gff")
	fmt.Fprintln(w, "  orfcompare -j 4")
	fmt.Fprintln(w, "  # other predictors: list them under orf.targets in a config file")
	fmt.Fprintln(w, "  orfcompare -c genopipe.yaml")
}

// Targets turns the configured ORF targets into orf targets. With none
// configured, Prodigal and FragGeneScan are read from the prediction
// output directories.
func Targets(cfg *config.Config) []orf.Target {
	if len(cfg.ORF.Targets) == 0 {
		return orf.DefaultTargets(cfg.Prediction.ToolDir("prodigal"), cfg.Prediction.ToolDir("fraggenescan"))
	}
	out := make([]orf.Target, len(cfg.ORF.Targets))
	for i, t := range cfg.ORF.Targets {
		out[i] = orf.Target{Tool: t.Tool, Predictions: t.Predictions, Pattern: t.Pattern}
	}
	return out
}

// RunContext compares every predictor's output with the reference
// annotation, one CSV per contig and predictor, and prints the CSV paths.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	env, code, done := appcore.Setup(argv, stdout, stderr, appcore.Spec{
		Name:    "orfcompare",
		Summary: "ORF comparison against a reference annotation",
		Usage:   "orfcompare [options]",
		Flags:   flags,
		Keys:    keys,

		Examples: examples,
	})
	if done {
		return code
	}
	if len(env.Args) > 0 {
		fmt.Fprintf(stderr, "error: unexpected arguments %v\n", env.Args)
		return cmdutil.ExitUsage
	}
	cfg := env.Config

	csvs, err := orf.Run(parent, orf.Config{
		Exec:       cfg.Exec.AggregateCompare,
		DNADir:     cfg.ORF.DNADir,
		DNAPattern: cfg.ORF.DNAPattern,
		Reference:  cfg.ORF.Reference,
		OutDir:     cfg.ORF.OutDir,
		Targets:    Targets(cfg),
		Jobs:       cfg.Jobs,
		Timeout:    cfg.Timeout,
		Launcher:   env.Launcher,
		Logger:     env.Log,
	})
	if err != nil {
		return cmdutil.Fail(parent, stderr, err)
	}

	outw := bufio.NewWriter(stdout)
	for _, p := range csvs {
		fmt.Fprintln(outw, p)
	}
	if err := outw.Flush(); err != nil && !writers.IsBrokenPipe(err) {
		return cmdutil.Fail(parent, stderr, err)
	}
	return cmdutil.ExitCode(parent, nil)
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
