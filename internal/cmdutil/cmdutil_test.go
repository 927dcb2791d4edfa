package cmdutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"genopipe/internal/pipeerr"
)

func TestExitCode(t *testing.T) {
	bg := context.Background()
	canceled, cancel := context.WithCancel(bg)
	cancel()
	cases := []struct {
		ctx  context.Context
		err  error
		want int
	}{
		{bg, nil, ExitOK},
		{bg, errors.New("x"), ExitFailure},
		{bg, fmt.Errorf("wrap: %w", context.Canceled), ExitCanceled},
		{canceled, errors.New("signal: killed"), ExitCanceled},
	}
	for i, c := range cases {
		if got := ExitCode(c.ctx, c.err); got != c.want {
			t.Errorf("case %d: got %d want %d", i, got, c.want)
		}
	}
}

func TestFailPrintsCommandLine(t *testing.T) {
	var b bytes.Buffer
	err := fmt.Errorf("fastANI: %w", &pipeerr.ToolError{Tool: "fastANI", Args: []string{"-q", "a"}, ExitCode: 1})
	if code := Fail(context.Background(), &b, err); code != ExitFailure {
		t.Fatalf("code %d", code)
	}
	if !strings.Contains(b.String(), "error: fastANI: fastANI: exit status 1") ||
		!strings.Contains(b.String(), "command: fastANI -q a") {
		t.Fatalf("output %q", b.String())
	}
}

func TestWarnfQuiet(t *testing.T) {
	var b bytes.Buffer
	Warnf(&b, true, "x %d", 1)
	if b.Len() != 0 {
		t.Fatal("quiet warning printed")
	}
	Warnf(&b, false, "x %d", 1)
	if b.String() != "WARN: x 1\n" {
		t.Fatalf("got %q", b.String())
	}
}
