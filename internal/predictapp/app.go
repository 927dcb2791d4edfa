// internal/predictapp/app.go
package predictapp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"genopipe/internal/appcore"
	"genopipe/internal/cmdutil"
	"genopipe/internal/config"
	"genopipe/internal/contig"
	"genopipe/internal/predict"
	"genopipe/internal/writers"
)

const usageLine = "genepred [options] [assembly.fasta ...]"

var keys = map[string]string{
	"tools":           "prediction.tools",
	"assembly-dir":    "prediction.assembly_dir",
	"pattern":         "prediction.pattern",
	"out-dir":         "prediction.out_dir",
	"output":          "prediction.output",
	"sample-interval": "prediction.sample_interval",
}

func flags(fs *pflag.FlagSet) {
	fs.StringSlice("tools", nil, "predictors to run, in order: prodigal,fraggenescan,balrog")
	fs.String("assembly-dir", "", "directory of assemblies (default assembly/final_results)")
	fs.String("pattern", "", "assembly file glob (default *.fasta)")
	fs.String("out-dir", "", "prediction output root (default prediction)")
	fs.StringP("output", "o", "", "summary format: "+strings.Join(writers.Formats(), " | ")+" (default text)")
	fs.Duration("sample-interval", 0, "CPU sampling interval (default 10ms)")
}

func examples(w io.Writer) {
	fmt.Fprintln(w, "  # all three predictors over assembly/final_results")
	fmt.Fprintln(w, "  genepred")
	fmt.Fprintln(w, "  # Prodigal only, two assemblies, JSON summary")
	fmt.Fprintln(w, "  genepred --tools prodigal -o json A_contigs.fasta B_contigs.fasta")
}

func check(cfg *config.Config) error {
	_, err := predict.ParseTools(strings.Join(cfg.Prediction.Tools, ","))
	return err
}

// RunContext runs every selected predictor over the assemblies, one
// invocation at a time, and writes one resource summary per tool.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	env, code, done := appcore.Setup(argv, stdout, stderr, appcore.Spec{
		Name:    "genepred",
		Summary: "resource-tracked gene prediction",
		Usage:   usageLine,
		Flags:   flags,
		Keys:    keys,
		Check:   check,

		Examples: examples,
	})
	if done {
		return code
	}
	cfg := env.Config
	pc := cfg.Prediction

	var assemblies []contig.Assembly
	var err error
	if len(env.Args) > 0 {
		if env.Flags.Changed("assembly-dir") || env.Flags.Changed("pattern") {
			cmdutil.Warnf(stderr, env.Common.Quiet, "assemblies given as arguments; ignoring --assembly-dir and --pattern")
		}
		assemblies, err = contig.FromPaths(env.Args)
	} else {
		assemblies, err = contig.Discover(pc.AssemblyDir, pc.Pattern)
	}
	if err != nil {
		return cmdutil.Fail(parent, stderr, err)
	}
	if len(assemblies) == 0 {
		return cmdutil.Fail(parent, stderr, fmt.Errorf("no assemblies match %s/%s", pc.AssemblyDir, pc.Pattern))
	}
	tools, _ := predict.ParseTools(strings.Join(pc.Tools, ","))

	outw := bufio.NewWriter(stdout)
	in, werr := writers.StartSummaryWriter(outw, pc.Output, len(tools))
	opts := predict.Options{
		Launcher:       env.Launcher,
		Logger:         env.Log,
		Timeout:        cfg.Timeout,
		SampleInterval: pc.SampleInterval,
		SampleCapacity: pc.SampleCapacity,
	}

	var runErr error
	for _, tool := range tools {
		p, err := predict.New(tool, execFor(cfg.Exec, tool), pc.ToolDir(tool))
		if err != nil {
			runErr = err
			break
		}
		sum, err := predict.RunBatch(parent, p, assemblies, opts)
		if err != nil {
			runErr = err
			break
		}
		in <- writers.ToolSummary{Summary: sum, OutDir: p.OutDir()}
	}
	close(in)
	if err := <-werr; err != nil && runErr == nil {
		runErr = err
	}
	if err := outw.Flush(); err != nil && !writers.IsBrokenPipe(err) && runErr == nil {
		runErr = err
	}

	if runErr != nil {
		return cmdutil.Fail(parent, stderr, runErr)
	}
	return cmdutil.ExitCode(parent, nil)
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func execFor(e config.Exec, tool string) string {
	switch tool {
	case predict.ToolProdigal:
		return e.Prodigal
	case predict.ToolFragGeneScan:
		return e.FragGeneScan
	case predict.ToolBalrog:
		return e.Balrog
	}
	return ""
}
