package predictapp

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genopipe/internal/faketool"
	"genopipe/pkg/api"
)

const fakeProdigal = `while [ $# -gt 0 ]; do
  case "$1" in -o) o=$2; shift ;; esac
  shift
done
echo "##gff-version 3" > "$o"
`

func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	asm := filepath.Join(root, "assembly", "final_results")
	if err := os.MkdirAll(asm, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, n := range []string{"A_contigs.fasta", "B_contigs.fasta"} {
		if err := os.WriteFile(filepath.Join(asm, n), []byte(">c1\nACGT\n>c2\nGGCC\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRunProdigalJSON(t *testing.T) {
	root := project(t)
	t.Setenv("GENOPIPE_EXEC_PRODIGAL", faketool.Script(t, t.TempDir(), "prodigal", fakeProdigal))

	var out, errb bytes.Buffer
	code := Run([]string{"--root", root, "--tools", "prodigal", "-o", "json", "-q"}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	var sums []api.SummaryV1
	if err := json.Unmarshal(out.Bytes(), &sums); err != nil {
		t.Fatalf("json: %v\n%s", err, out.String())
	}
	if len(sums) != 1 || sums[0].Tool != "Prodigal" || sums[0].Invocations != 2 {
		t.Fatalf("summaries %+v", sums)
	}
	for _, id := range []string{"A", "B"} {
		if _, err := os.Stat(filepath.Join(root, "prediction", "prodigal_output", id+".gff")); err != nil {
			t.Fatalf("missing %s.gff", id)
		}
	}
}

func TestRunMissingToolFails(t *testing.T) {
	root := project(t)
	t.Setenv("GENOPIPE_EXEC_PRODIGAL", filepath.Join(t.TempDir(), "absent-prodigal"))
	var out, errb bytes.Buffer
	code := Run([]string{"--root", root, "--tools", "prodigal", "-q"}, &out, &errb)
	if code != 3 {
		t.Fatalf("exit %d, want 3", code)
	}
	if !strings.Contains(errb.String(), "command: ") {
		t.Fatalf("stderr %q", errb.String())
	}
}

func TestRunUnknownToolIsUsageError(t *testing.T) {
	var out, errb bytes.Buffer
	if code := Run([]string{"--tools", "glimmer"}, &out, &errb); code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
}

func TestRunNoAssemblies(t *testing.T) {
	var out, errb bytes.Buffer
	code := Run([]string{"--root", t.TempDir(), "-q"}, &out, &errb)
	if code != 3 || !strings.Contains(errb.String(), "no assemblies") {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
}

func TestRunRelativePositionals(t *testing.T) {
	root := project(t)
	t.Setenv("GENOPIPE_EXEC_PRODIGAL", faketool.Script(t, t.TempDir(), "prodigal", `while [ $# -gt 0 ]; do
  case "$1" in
    -i) i=$2; shift ;;
    -o) o=$2; shift ;;
  esac
  shift
done
[ -f "$i" ] || { echo "cannot open $i" >&2; exit 1; }
echo "##gff-version 3" > "$o"
`))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(filepath.Join(root, "assembly", "final_results")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out, errb bytes.Buffer
	code := Run([]string{"--root", root, "--tools", "prodigal", "-q", "A_contigs.fasta"}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	if _, err := os.Stat(filepath.Join(root, "prediction", "prodigal_output", "A.gff")); err != nil {
		t.Fatal("missing A.gff")
	}
}

func TestHelpListsSummaryFormats(t *testing.T) {
	var out, errb bytes.Buffer
	if code := Run([]string{"--help"}, &out, &errb); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out.String(), "summary format: json | jsonl | text") {
		t.Fatalf("help %q", out.String())
	}
}
