// internal/cmdutil/log.go
package cmdutil

import (
	"errors"
	"fmt"
	"io"

	"genopipe/internal/pipeerr"
)

// PrintError writes err to dst the way every command reports a fatal error.
// Tool failures also show the command line that failed.
func PrintError(dst io.Writer, err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintf(dst, "error: %v\n", err)
	var te *pipeerr.ToolError
	if errors.As(err, &te) {
		_, _ = fmt.Fprintf(dst, "  command: %s\n", te.CommandLine())
		if te.Dir != "" {
			_, _ = fmt.Fprintf(dst, "  dir:     %s\n", te.Dir)
		}
	}
}

// Warnf prints a one-line warning unless quiet is set.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}
