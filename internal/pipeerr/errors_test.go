package pipeerr

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

func TestKindsMatchThroughWrapping(t *testing.T) {
	tool := fmt.Errorf("stage fastani: %w", &ToolError{Tool: "fastANI", ExitCode: -1, Err: exec.ErrNotFound})
	if !errors.Is(tool, ErrToolInvocationFailed) {
		t.Fatalf("want ErrToolInvocationFailed, got %v", tool)
	}
	if !errors.Is(tool, exec.ErrNotFound) {
		t.Fatalf("cause should stay reachable")
	}
	if errors.Is(tool, ErrArtifactNotFound) {
		t.Fatalf("tool error must not match artifact kind")
	}

	art := fmt.Errorf("aggregate: %w", &ArtifactError{Stage: "fastani", Path: "x.txt"})
	if !errors.Is(art, ErrArtifactNotFound) {
		t.Fatalf("want ErrArtifactNotFound")
	}
	mm := &MismatchError{ID: "A", Set: "prodigal_output"}
	if !errors.Is(mm, ErrPathMismatch) {
		t.Fatalf("want ErrPathMismatch")
	}
}

func TestToolErrorMessage(t *testing.T) {
	e := &ToolError{Tool: "prodigal", Args: []string{"-i", "a.fasta"}, ExitCode: 2, Stderr: "reading\nbad input\n"}
	if got, want := e.Error(), "prodigal: exit status 2: bad input"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := e.CommandLine(); got != "prodigal -i a.fasta" {
		t.Fatalf("command line %q", got)
	}
}
