package cmdutil

import (
	"context"
	"errors"
	"io"
)

// Process exit codes shared by every command.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitFailure  = 3
	ExitCanceled = 130
)

// ExitCode maps the outcome of a run to a process exit code. Cancellation
// wins over whatever error the canceled work produced.
func ExitCode(ctx context.Context, err error) int {
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return ExitCanceled
	case err == nil:
		return ExitOK
	}
	return ExitFailure
}

// Fail prints err (unless the run was canceled) and returns its exit code.
func Fail(ctx context.Context, stderr io.Writer, err error) int {
	code := ExitCode(ctx, err)
	if code == ExitCanceled {
		_, _ = io.WriteString(stderr, "canceled\n")
		return code
	}
	PrintError(stderr, err)
	return code
}
