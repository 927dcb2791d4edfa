// Package rootcmd is the genopipe umbrella command: each pipeline binary is
// available as a subcommand that receives its arguments untouched.
package rootcmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"genopipe/internal/comparativeapp"
	"genopipe/internal/orfapp"
	"genopipe/internal/predictapp"
	"genopipe/internal/version"
)

type appFunc func(context.Context, []string, io.Writer, io.Writer) int

// New builds the root command. The exit code of the subcommand that ran is
// stored in *code.
func New(code *int) *cobra.Command {
	root := &cobra.Command{
		Use:   "genopipe",
		Short: "Comparative genomics and gene prediction pipeline",
		Long: `genopipe drives external bioinformatics tools over a directory of
FASTA assemblies: pairwise ANI (fastANI, skani), clustering (ANIclustermap),
MLST typing, SNP calling (parsnp), gene prediction (Prodigal, FragGeneScan,
Balrog) with resource tracking, and ORF comparison (ORForise).

Every subcommand accepts --help for its own flags.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("genopipe version {{.Version}}\n")

	root.AddCommand(
		wrap("comparative", "Pairwise distance, clustering, typing and SNP calling", comparativeapp.RunContext, code),
		wrap("predict", "Resource-tracked gene prediction", predictapp.RunContext, code, "genepred"),
		wrap("orf", "ORF comparison against a reference annotation", orfapp.RunContext, code, "orfcompare"),
	)
	return root
}

func wrap(name, short string, run appFunc, code *int, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:                name + " [options]",
		Short:              short,
		Aliases:            aliases,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*code = run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}
}

// RunContext executes the umbrella command with argv and returns the exit
// code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	code := 0
	root := New(&code)
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	return code
}
