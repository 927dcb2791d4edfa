package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"genopipe/internal/pipeerr"
)

func needSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunCapturesStreams(t *testing.T) {
	needSh(t)
	res, err := Run(context.Background(), Invocation{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err 1>&2"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit=%d", res.ExitCode)
	}
	if strings.TrimSpace(string(res.Stdout)) != "out" || strings.TrimSpace(string(res.Stderr)) != "err" {
		t.Fatalf("stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
}

func TestRunUsesExplicitDir(t *testing.T) {
	needSh(t)
	dir := t.TempDir()
	before, _ := os.Getwd()
	_, err := Run(context.Background(), Invocation{
		Name: "sh",
		Args: []string{"-c", "echo x > here.txt"},
		Dir:  dir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "here.txt")); err != nil {
		t.Fatalf("output not written relative to Dir: %v", err)
	}
	if after, _ := os.Getwd(); after != before {
		t.Fatalf("process working directory changed: %s -> %s", before, after)
	}
}

func TestRunWritersReceiveStreams(t *testing.T) {
	needSh(t)
	var log bytes.Buffer
	_, err := Run(context.Background(), Invocation{
		Name:   "sh",
		Args:   []string{"-c", "echo a; echo b 1>&2"},
		Stdout: &log,
		Stderr: &log,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(log.String(), "a") || !strings.Contains(log.String(), "b") {
		t.Fatalf("log=%q", log.String())
	}
}

func TestRunNonZeroExit(t *testing.T) {
	needSh(t)
	res, err := Run(context.Background(), Invocation{Name: "sh", Args: []string{"-c", "echo boom 1>&2; exit 3"}})
	if !errors.Is(err, pipeerr.ErrToolInvocationFailed) {
		t.Fatalf("want ToolInvocationFailed, got %v", err)
	}
	var te *pipeerr.ToolError
	if !errors.As(err, &te) || te.ExitCode != 3 || !strings.Contains(te.Stderr, "boom") {
		t.Fatalf("bad tool error: %+v", te)
	}
	if res.ExitCode != 3 {
		t.Fatalf("result exit=%d", res.ExitCode)
	}
}

func TestRunMissingExecutable(t *testing.T) {
	_, err := Run(context.Background(), Invocation{Name: "genopipe-no-such-tool-xyz"})
	if !errors.Is(err, pipeerr.ErrToolInvocationFailed) {
		t.Fatalf("want ToolInvocationFailed, got %v", err)
	}
	var te *pipeerr.ToolError
	if !errors.As(err, &te) || te.ExitCode != -1 {
		t.Fatalf("missing binary should have exit -1: %+v", te)
	}
}

func TestRunCanceled(t *testing.T) {
	needSh(t)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := Run(ctx, Invocation{Name: "sh", Args: []string{"-c", "exec sleep 5"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRunTimeoutIsToolFailure(t *testing.T) {
	needSh(t)
	_, err := Run(context.Background(), Invocation{
		Name: "sh", Args: []string{"-c", "exec sleep 5"}, Timeout: 20 * time.Millisecond,
	})
	if !errors.Is(err, pipeerr.ErrToolInvocationFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want tool failure caused by deadline, got %v", err)
	}
}

func TestTailBufferKeepsEnd(t *testing.T) {
	tb := &tailBuffer{max: 4}
	_, _ = tb.Write([]byte("abcdef"))
	_, _ = tb.Write([]byte("gh"))
	if tb.String() != "efgh" {
		t.Fatalf("tail=%q", tb.String())
	}
}

func TestUsageCombines(t *testing.T) {
	u := Usage{User: time.Second, System: 500 * time.Millisecond, SharedMem: 1, UnsharedMem: 2, MaxRSS: 10}
	if u.CPU() != 1500*time.Millisecond {
		t.Fatalf("cpu=%v", u.CPU())
	}
	if u.Memory() != 3*1024 || u.PeakRSS() != 10*1024 {
		t.Fatalf("mem=%d rss=%d", u.Memory(), u.PeakRSS())
	}
}
