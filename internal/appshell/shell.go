// Package appshell is the common main() of every command: signal handling
// and exit code normalisation around an app's RunContext.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Main runs run with os.Args and exits with its code. SIGINT and SIGTERM
// cancel the context, which kills any running tool.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	os.Exit(Run(context.Background(), run, os.Args[1:], os.Stdout, os.Stderr))
}

// Run is Main without the process exit.
func Run(parent context.Context, run func(context.Context, []string, io.Writer, io.Writer) int, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, argv, stdout, stderr)
	// Normalize cancellation exit code.
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	return code
}
