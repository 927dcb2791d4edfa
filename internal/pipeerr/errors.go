// Package pipeerr defines the error kinds every driver reports to its caller.
//
// Match kinds with errors.Is against the sentinels; use errors.As to reach
// the typed error for details (tool arguments, missing path, contig ID).
package pipeerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolInvocationFailed = errors.New("tool invocation failed")
	ErrArtifactNotFound     = errors.New("artifact not found")
	ErrPathMismatch         = errors.New("path mismatch")
)

// ToolError describes an external process that could not be started or
// exited non-zero. ExitCode is -1 when the process never ran.
type ToolError struct {
	Tool     string
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string // tail of the captured stderr, may be empty
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: ", e.Tool)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, "exit status %d", e.ExitCode)
	} else if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("did not run")
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", lastLine(s))
	}
	return b.String()
}

func (e *ToolError) Unwrap() error { return e.Err }

func (e *ToolError) Is(target error) bool { return target == ErrToolInvocationFailed }

// CommandLine renders the invocation the way a shell user would type it.
func (e *ToolError) CommandLine() string {
	return strings.Join(append([]string{e.Tool}, e.Args...), " ")
}

// ArtifactError reports an expected output that is missing or empty.
type ArtifactError struct {
	Stage string
	Path  string
	Empty bool
	Err   error
}

func (e *ArtifactError) Error() string {
	what := "missing"
	if e.Empty {
		what = "empty"
	}
	return fmt.Sprintf("%s: %s output %s", e.Stage, what, e.Path)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

func (e *ArtifactError) Is(target error) bool { return target == ErrArtifactNotFound }

// MismatchError reports a contig ID that one directory yields and another
// does not, or a directory that yields the same ID twice.
type MismatchError struct {
	ID     string
	Set    string // where the ID was expected
	Detail string
}

func (e *MismatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("contig %q: %s (%s)", e.ID, e.Detail, e.Set)
	}
	return fmt.Sprintf("contig %q absent from %s", e.ID, e.Set)
}

func (e *MismatchError) Is(target error) bool { return target == ErrPathMismatch }

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
