// internal/clibase/usage.go
package clibase

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"genopipe/internal/version"
)

// sharedFlags are printed in the Miscellaneous block, not the tool block.
var sharedFlags = map[string]bool{
	"config": true, "root": true, "jobs": true, "timeout": true, "skip-empty": true,
	"quiet": true, "verbose": true, "log-format": true, "version": true, "examples": true, "help": true,
}

// PrintUsage writes the help text of a command: header, tool-specific usage
// line, the command's own flags, then the shared flags.
func PrintUsage(out io.Writer, fs *pflag.FlagSet, name, summary, usageLine string) {
	fmt.Fprintf(out, "%s – %s\n\n", name, summary)
	fmt.Fprintf(out, "Version: %s\n\n", version.Version)
	fmt.Fprintf(out, "Usage:\n  %s\n", usageLine)

	own := pflag.NewFlagSet(name, pflag.ContinueOnError)
	own.SortFlags = false
	shared := pflag.NewFlagSet(name, pflag.ContinueOnError)
	shared.SortFlags = false
	fs.VisitAll(func(f *pflag.Flag) {
		if sharedFlags[f.Name] {
			shared.AddFlag(f)
		} else {
			own.AddFlag(f)
		}
	})

	if own.HasFlags() {
		fmt.Fprintln(out, "\nOptions:")
		fmt.Fprint(out, own.FlagUsages())
	}
	fmt.Fprintln(out, "\nMiscellaneous:")
	fmt.Fprint(out, shared.FlagUsages())
	fmt.Fprintln(out, "\nEnvironment: GENOPIPE_<KEY> overrides config keys (GENOPIPE_PREDICTION_OUT_DIR).")
}
