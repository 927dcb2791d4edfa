// Package faketool provides stand-in executables and launchers for tests
// that drive external tools.
package faketool

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"genopipe/internal/runner"
)

// Script writes an executable /bin/sh script named name into dir and
// returns its path. The test is skipped where sh scripts cannot run.
func Script(t testing.TB, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("sh scripts not supported on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// Recorder is a runner.Launcher that records every invocation. Fn, when
// set, decides the outcome; otherwise every call succeeds.
type Recorder struct {
	Fn func(inv runner.Invocation) (runner.Result, error)

	mu    sync.Mutex
	calls []runner.Invocation
}

// Run records inv.
func (r *Recorder) Run(ctx context.Context, inv runner.Invocation) (runner.Result, error) {
	if err := ctx.Err(); err != nil {
		return runner.Result{ExitCode: -1}, err
	}
	r.mu.Lock()
	r.calls = append(r.calls, inv)
	r.mu.Unlock()
	if r.Fn != nil {
		return r.Fn(inv)
	}
	return runner.Result{}, nil
}

// Calls returns the recorded invocations in call order.
func (r *Recorder) Calls() []runner.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]runner.Invocation(nil), r.calls...)
}
