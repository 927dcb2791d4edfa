package predict

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"genopipe/internal/contig"
	"genopipe/internal/faketool"
	"genopipe/internal/pipeerr"
	"genopipe/internal/runner"
)

const fakeProdigal = `while [ $# -gt 0 ]; do
  case "$1" in
    -o) o=$2; shift ;;
    -a) a=$2; shift ;;
    -d) d=$2; shift ;;
  esac
  shift
done
echo "prodigal running" >&2
echo "##gff-version 3" > "$o"; : > "$a"; : > "$d"
`

const fakeBalrog = `while [ $# -gt 0 ]; do
  case "$1" in
    -i) i=$2; shift ;;
    -o) o=$2; shift ;;
  esac
  shift
done
head -n 1 "$i" | sed 's/^>//' > "$o"
`

func writeAssemblies(t *testing.T, records map[string]int) []contig.Assembly {
	t.Helper()
	dir := t.TempDir()
	for name, n := range records {
		var b strings.Builder
		for i := 1; i <= n; i++ {
			b.WriteString(">rec" + strconv.Itoa(i) + "\nACGTACGT\n")
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	as, err := contig.Discover(dir, "*.fasta")
	if err != nil {
		t.Fatal(err)
	}
	return as
}

func TestCommandShapes(t *testing.T) {
	u := Unit{ID: "A", Input: "/in/A_contigs.fasta", Stem: "A"}

	p, _ := New("prodigal", "", "/out/prodigal_output")
	inv := p.Command(u)
	want := []string{"-f", "gff", "-i", "/in/A_contigs.fasta", "-o", "A.gff", "-a", "A.faa", "-d", "A.fna"}
	if inv.Name != "prodigal" || !reflect.DeepEqual(inv.Args, want) || inv.Dir != "/out/prodigal_output" {
		t.Fatalf("prodigal %+v", inv)
	}

	f, _ := New("fraggenescan", "", "/out/fgs_output")
	inv = f.Command(u)
	want = []string{"-genome=/in/A_contigs.fasta", "-out=/out/fgs_output/A", "-complete=1", "-train=complete"}
	if inv.Name != "run_FragGeneScan.pl" || !reflect.DeepEqual(inv.Args, want) {
		t.Fatalf("fgs %+v", inv)
	}

	b, _ := New("balrog", "", "/out/balrog_output")
	inv = b.Command(Unit{ID: "A", Input: "/s/A_contigs_3.fasta", Stem: "A_contigs_3"})
	want = []string{"-i", "/s/A_contigs_3.fasta", "--mmseqs", "-o", "A_contigs_3.gff"}
	if inv.Name != "balrog" || !reflect.DeepEqual(inv.Args, want) {
		t.Fatalf("balrog %+v", inv)
	}
}

func TestParseTools(t *testing.T) {
	got, err := ParseTools(" Balrog,fgs,balrog ,prodigal")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"balrog", "fraggenescan", "prodigal"}) {
		t.Fatalf("got %v", got)
	}
	if _, err := ParseTools("glimmer"); err == nil {
		t.Fatal("unknown tool accepted")
	}
	if _, err := ParseTools(" , "); err == nil {
		t.Fatal("empty list accepted")
	}
}

func TestRunBatchProdigal(t *testing.T) {
	as := writeAssemblies(t, map[string]int{"A_contigs.fasta": 2, "B_contigs.fasta": 1})
	tool := faketool.Script(t, t.TempDir(), "prodigal", fakeProdigal)
	out := filepath.Join(t.TempDir(), "prodigal_output")
	p, _ := New("prodigal", tool, out)

	sum, err := RunBatch(context.Background(), p, as, Options{SampleInterval: time.Millisecond})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if sum.Tool != "Prodigal" || sum.Invocations != 2 || !sum.MeansValid {
		t.Fatalf("summary %+v", sum)
	}
	if sum.CPUValid && (sum.CPUPercent < 0 || sum.CPUPercent > 100) {
		t.Fatalf("cpu %v out of range", sum.CPUPercent)
	}
	for _, f := range []string{"A.gff", "A.faa", "A.fna", "B.gff"} {
		if _, err := os.Stat(filepath.Join(out, f)); err != nil {
			t.Fatalf("missing %s", f)
		}
	}
	log, _ := os.ReadFile(filepath.Join(out, LogName))
	if strings.Count(string(log), "prodigal running") != 2 {
		t.Fatalf("loginfo %q", log)
	}
}

func TestRunBatchBalrogReassembles(t *testing.T) {
	as := writeAssemblies(t, map[string]int{"A_contigs.fasta": 11, "B_contigs.fasta": 2})
	tool := faketool.Script(t, t.TempDir(), "balrog", fakeBalrog)
	out := filepath.Join(t.TempDir(), "balrog_output")
	p, _ := New("balrog", tool, out)

	sum, err := RunBatch(context.Background(), p, as, Options{})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if sum.Invocations != 13 {
		t.Fatalf("invocations %d", sum.Invocations)
	}
	b, err := os.ReadFile(filepath.Join(out, "A.gff"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Fields(string(b))
	if len(lines) != 11 || lines[0] != "rec1" || lines[9] != "rec10" || lines[10] != "rec11" {
		t.Fatalf("A.gff order %v", lines)
	}
	entries, _ := os.ReadDir(out)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if !reflect.DeepEqual(names, []string{"A.gff", "B.gff", LogName}) {
		t.Fatalf("intermediates left: %v", names)
	}
}

func TestRunBatchBalrogFailureLeavesNoParts(t *testing.T) {
	as := writeAssemblies(t, map[string]int{"A_contigs.fasta": 3})
	out := filepath.Join(t.TempDir(), "balrog_output")
	failing := faketool.Script(t, t.TempDir(), "balrog", `case "$2" in *_3.fasta) exit 1 ;; esac
`+fakeBalrog)
	p, _ := New("balrog", failing, out)
	if _, err := RunBatch(context.Background(), p, as, Options{}); !errors.Is(err, pipeerr.ErrToolInvocationFailed) {
		t.Fatalf("want tool failure, got %v", err)
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 1 || entries[0].Name() != LogName {
		t.Fatalf("failed batch left %v", entries)
	}

	// A rerun reassembles only its own parts.
	p, _ = New("balrog", faketool.Script(t, t.TempDir(), "balrog", fakeBalrog), out)
	if _, err := RunBatch(context.Background(), p, as, Options{}); err != nil {
		t.Fatalf("rerun: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(out, "A.gff"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Fields(string(b)); !reflect.DeepEqual(got, []string{"rec1", "rec2", "rec3"}) {
		t.Fatalf("A.gff %v", got)
	}
}

func TestRunBatchMissingOutputIsMismatch(t *testing.T) {
	as := writeAssemblies(t, map[string]int{"A_contigs.fasta": 1})
	out := t.TempDir()
	p, _ := New("prodigal", "", out)
	// Succeeds but writes nothing.
	_, err := RunBatch(context.Background(), p, as, Options{Launcher: &faketool.Recorder{}})
	var me *pipeerr.MismatchError
	if !errors.As(err, &me) || me.ID != "A" {
		t.Fatalf("want mismatch for A, got %v", err)
	}
}

func TestRunBatchToolFailureStops(t *testing.T) {
	as := writeAssemblies(t, map[string]int{"A_contigs.fasta": 1, "B_contigs.fasta": 1})
	rec := &faketool.Recorder{Fn: func(inv runner.Invocation) (runner.Result, error) {
		return runner.Result{ExitCode: 1}, &pipeerr.ToolError{Tool: inv.Name, ExitCode: 1}
	}}
	p, _ := New("fraggenescan", "", t.TempDir())
	sum, err := RunBatch(context.Background(), p, as, Options{Launcher: rec})
	if !errors.Is(err, pipeerr.ErrToolInvocationFailed) {
		t.Fatalf("want tool failure, got %v", err)
	}
	if len(rec.Calls()) != 1 {
		t.Fatalf("batch continued after failure: %d calls", len(rec.Calls()))
	}
	if sum.CPUValid {
		t.Fatal("cpu must be missing for a failed batch")
	}
}

func TestRunBatchNoAssemblies(t *testing.T) {
	p, _ := New("prodigal", "", t.TempDir())
	sum, err := RunBatch(context.Background(), p, nil, Options{Launcher: &faketool.Recorder{}})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Invocations != 0 || sum.CPUValid || sum.MeansValid {
		t.Fatalf("empty batch summary %+v", sum)
	}
}
