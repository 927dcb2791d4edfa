// internal/comparativeapp/app.go
package comparativeapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"genopipe/internal/appcore"
	"genopipe/internal/cmdutil"
	"genopipe/internal/config"
	"genopipe/internal/writers"
)

var keys = map[string]string{
	"stages":       "comparative.stages",
	"keep-going":   "comparative.keep_going",
	"output":       "comparative.output",
	"assembly-dir": "comparative.assembly_dir",
	"pattern":      "comparative.pattern",
	"annotation":   "comparative.clustermap.annotation",
}

func flags(fs *pflag.FlagSet) {
	fs.StringSlice("stages", nil, "stages to run, in order: "+stageNames())
	fs.BoolP("keep-going", "k", false, "run the remaining stages after a failure")
	fs.StringP("output", "o", "", "stage report format: text | json | jsonl (default text)")
	fs.String("assembly-dir", "", "assemblies for mlst and parsnp (default assembly/final_results)")
	fs.String("pattern", "", "assembly file glob (default *.fasta)")
	fs.Bool("annotation", false, "annotate clustermap cells with ANI values")
}

func examples(w io.Writer) {
	fmt.Fprintln(w, "  # every stage with 4 parallel distance jobs")
	fmt.Fprintln(w, "  comparative -j 4")
	fmt.Fprintln(w, "  # distances only, keep going past a failed tool")
	fmt.Fprintln(w, "  comparative --stages fastani,skani --keep-going")
}

func check(cfg *config.Config) error {
	_, err := selectStages(cfg.Comparative.Stages)
	return err
}

// RunContext runs the selected comparative stages in order and reports the
// outcome of each. A failed stage stops the run unless keep-going is set;
// stages not reached are reported as skipped.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	env, code, done := appcore.Setup(argv, stdout, stderr, appcore.Spec{
		Name:    "comparative",
		Summary: "pairwise distance, clustering, typing and SNP calling",
		Usage:   "comparative [options]",
		Flags:   flags,
		Keys:    keys,
		Check:   check,

		Examples: examples,
	})
	if done {
		return code
	}
	if len(env.Args) > 0 {
		fmt.Fprintf(stderr, "error: unexpected arguments %v\n", env.Args)
		return cmdutil.ExitUsage
	}
	selected, _ := selectStages(env.Config.Comparative.Stages)

	outw := bufio.NewWriter(stdout)
	in, werr := writers.StartStageWriter(outw, env.Config.Comparative.Output, len(selected))

	var failed []error
	for _, s := range selected {
		if parent.Err() != nil || (len(failed) > 0 && !env.Config.Comparative.KeepGoing) {
			in <- writers.StageResult{Stage: s.name, Status: "skipped"}
			continue
		}
		log := env.Log.With("stage", s.name)
		log.Info("stage start")
		start := time.Now()
		o, err := s.run(parent, env)
		r := writers.StageResult{
			Stage:       s.name,
			Status:      "ok",
			Elapsed:     time.Since(start),
			Invocations: o.invocations,
			Outputs:     o.outputs,
		}
		if err != nil {
			r.Status, r.Err, r.Outputs = "failed", err, nil
			failed = append(failed, fmt.Errorf("%s: %w", s.name, err))
			log.Error("stage failed", "err", err)
		} else {
			log.Info("stage done", "elapsed", r.Elapsed.Round(time.Millisecond))
		}
		in <- r
	}
	close(in)
	werrV := <-werr
	flushErr := outw.Flush()

	if err := errors.Join(failed...); err != nil {
		return cmdutil.Fail(parent, stderr, err)
	}
	if werrV != nil {
		return cmdutil.Fail(parent, stderr, werrV)
	}
	if flushErr != nil && !writers.IsBrokenPipe(flushErr) {
		return cmdutil.Fail(parent, stderr, flushErr)
	}
	return cmdutil.ExitCode(parent, nil)
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
