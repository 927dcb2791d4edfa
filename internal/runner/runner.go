// Package runner launches external tools and returns a structured result
// for every launch: exit code, captured streams, wall time and the child's
// resource usage as reported by wait4.
//
// Working directories are always explicit (Invocation.Dir); the process-wide
// working directory is never changed.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"genopipe/internal/pipeerr"
)

// Invocation is one external process launch.
type Invocation struct {
	Name string   // executable, looked up on $PATH unless it contains a separator
	Args []string // passed verbatim, no shell involved
	Dir  string   // working directory of the child; "" inherits ours

	// When set, the child's streams go here. When nil they are captured
	// into Result.Stdout / Result.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Timeout bounds this invocation; 0 means no limit.
	Timeout time.Duration
}

// String renders the invocation as a command line.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Name}, inv.Args...), " ")
}

// Result is what every launch returns, successful or not.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Elapsed  time.Duration
	Usage    Usage
}

// Launcher runs one invocation to completion. *Runner is the production
// implementation; drivers accept a Launcher so tests can record calls.
type Launcher interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// Or returns l, or Default when l is nil.
func Or(l Launcher) Launcher {
	if l == nil {
		return Default
	}
	return l
}

// Runner runs invocations. The zero value is ready to use.
type Runner struct {
	Logger *slog.Logger
}

// Default is used by the package-level Run.
var Default = &Runner{}

// Run launches inv with the Default runner.
func Run(ctx context.Context, inv Invocation) (Result, error) {
	return Default.Run(ctx, inv)
}

const (
	stderrTail = 4 << 10
	waitDelay  = 2 * time.Second
)

// Run starts inv, waits for it and returns its Result.
//
// A missing executable or a non-zero exit is reported as a *pipeerr.ToolError.
// When ctx is canceled the child is killed and ctx.Err() is returned.
func (r *Runner) Run(ctx context.Context, inv Invocation) (Result, error) {
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}
	log := r.logger()
	log.Debug("exec", "cmd", inv.String(), "dir", inv.Dir)

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	// Bounds the wait for pipe copies once a killed child leaves them open.
	cmd.WaitDelay = waitDelay

	var outBuf, errBuf bytes.Buffer
	tail := &tailBuffer{max: stderrTail}
	if inv.Stdout != nil {
		cmd.Stdout = inv.Stdout
	} else {
		cmd.Stdout = &outBuf
	}
	if inv.Stderr != nil {
		cmd.Stderr = io.MultiWriter(inv.Stderr, tail)
	} else {
		cmd.Stderr = io.MultiWriter(&errBuf, tail)
	}

	start := time.Now()
	err := cmd.Run()
	res := Result{
		ExitCode: -1,
		Stdout:   outBuf.Bytes(),
		Stderr:   errBuf.Bytes(),
		Elapsed:  time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
		res.Usage = usageOf(cmd.ProcessState)
	}

	if err == nil {
		log.Debug("done", "cmd", inv.Name, "elapsed", res.Elapsed, "cpu", res.Usage.CPU())
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) && inv.Timeout > 0 {
			return res, &pipeerr.ToolError{
				Tool: inv.Name, Args: inv.Args, Dir: inv.Dir,
				ExitCode: res.ExitCode, Stderr: tail.String(), Err: ctxErr,
			}
		}
		return res, ctxErr
	}
	return res, &pipeerr.ToolError{
		Tool:     inv.Name,
		Args:     inv.Args,
		Dir:      inv.Dir,
		ExitCode: res.ExitCode,
		Stderr:   tail.String(),
		Err:      err,
	}
}

func (r *Runner) logger() *slog.Logger {
	if r == nil || r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string { return string(t.buf) }
