package distance

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"genopipe/internal/faketool"
	"genopipe/internal/pipeerr"
	"genopipe/internal/runner"
)

const fakeFastANI = `while [ $# -gt 0 ]; do
  case "$1" in
    -q) q=$2; shift ;;
    -r) r=$2; shift ;;
    -o) o=$2; shift ;;
  esac
  shift
done
printf '%s\t%s\t99.1\t120\t130\n' "$q" "$r" > "$o"
`

func assemblies(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(">c1\nACGT\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPairsEachUnorderedPairOnce(t *testing.T) {
	for n := 0; n <= 7; n++ {
		files := make([]string, n)
		for i := range files {
			files[i] = string(rune('A' + i))
		}
		pairs := Pairs(files)
		if len(pairs) != n*(n-1)/2 {
			t.Fatalf("n=%d: %d pairs", n, len(pairs))
		}
		seen := map[[2]string]bool{}
		for _, p := range pairs {
			if p.A == p.B {
				t.Fatalf("self pair %v", p)
			}
			k := [2]string{p.A, p.B}
			if p.B < p.A {
				k = [2]string{p.B, p.A}
			}
			if seen[k] {
				t.Fatalf("pair %v twice", k)
			}
			seen[k] = true
		}
	}
}

func TestArgumentShapes(t *testing.T) {
	f := FastANI("")
	if got := f.Args("d/A.fasta", "d/B.fasta", "o/x.txt"); !reflect.DeepEqual(got,
		[]string{"-q", "d/A.fasta", "-r", "d/B.fasta", "-o", "o/x.txt"}) {
		t.Fatalf("fastANI args %v", got)
	}
	if got := f.OutputName("d/A_contigs.fasta", "d/B_contigs.fasta"); got != "FastANI_Outdir_A_contigs.fasta_B_contigs.fasta.txt" {
		t.Fatalf("fastANI output %q", got)
	}
	s := Skani("", 5)
	if got := s.Args("a", "b", "o"); !reflect.DeepEqual(got, []string{"dist", "a", "b", "-t", "5", "-o", "o"}) {
		t.Fatalf("skani args %v", got)
	}
	if got := s.OutputName("a", "b"); got != "SKANI_Outdir_a_b.txt" {
		t.Fatalf("skani output %q", got)
	}
}

func TestRunThreeAssemblies(t *testing.T) {
	in := assemblies(t, "A_contigs.fasta", "B_contigs.fasta", "C_contigs.fasta")
	bin := t.TempDir()
	out := t.TempDir()
	tool := faketool.Script(t, bin, "fastANI", fakeFastANI)

	for _, jobs := range []int{1, 3} {
		report := filepath.Join(out, "report.txt")
		res, err := Run(context.Background(), Config{
			Method:   FastANI(tool),
			InputDir: in,
			OutDir:   filepath.Join(out, "pairs"),
			Report:   report,
			Jobs:     jobs,
		})
		if err != nil {
			t.Fatalf("jobs=%d: %v", jobs, err)
		}
		if res.Pairs != 3 || res.Lines != 3 {
			t.Fatalf("jobs=%d: %+v", jobs, res)
		}
		b, _ := os.ReadFile(report)
		lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("report lines: %q", b)
		}
		if !strings.Contains(lines[0], "A_contigs.fasta") || !strings.Contains(lines[0], "B_contigs.fasta") {
			t.Fatalf("first line %q", lines[0])
		}
		if !strings.Contains(lines[2], "B_contigs.fasta") || !strings.Contains(lines[2], "C_contigs.fasta") {
			t.Fatalf("last line %q", lines[2])
		}
		pairs, _ := filepath.Glob(filepath.Join(out, "pairs", "FastANI_Outdir_*.txt"))
		if len(pairs) != 3 {
			t.Fatalf("outputs %v", pairs)
		}
	}
}

func TestMissingToolSkipsAggregation(t *testing.T) {
	in := assemblies(t, "A_contigs.fasta", "B_contigs.fasta")
	out := t.TempDir()
	report := filepath.Join(out, "report.txt")
	_, err := Run(context.Background(), Config{
		Method:   FastANI(filepath.Join(t.TempDir(), "no-such-fastANI")),
		InputDir: in,
		OutDir:   out,
		Report:   report,
		Jobs:     1,
	})
	if !errors.Is(err, pipeerr.ErrToolInvocationFailed) {
		t.Fatalf("want ToolInvocationFailed, got %v", err)
	}
	if _, statErr := os.Stat(report); !os.IsNotExist(statErr) {
		t.Fatal("report must not be written after a failed invocation")
	}
}

func TestAggregateMissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "X_1.txt")
	empty := filepath.Join(dir, "X_2.txt")
	os.WriteFile(ok, []byte("line one\nline two\n"), 0o644)
	os.WriteFile(empty, nil, 0o644)
	report := filepath.Join(dir, "out", "r.txt")

	_, err := Aggregate(report, []string{ok, filepath.Join(dir, "X_0.txt")}, false, nil)
	var ae *pipeerr.ArtifactError
	if !errors.As(err, &ae) || ae.Empty {
		t.Fatalf("missing: %v", err)
	}

	_, err = Aggregate(report, []string{ok, empty}, false, nil)
	if !errors.As(err, &ae) || !ae.Empty {
		t.Fatalf("empty: %v", err)
	}

	agg, err := Aggregate(report, []string{empty, ok}, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if agg.Lines != 1 || len(agg.Skipped) != 1 {
		t.Fatalf("agg %+v", agg)
	}
	b, _ := os.ReadFile(report)
	if string(b) != "line one\n" {
		t.Fatalf("report %q", b)
	}
}

func TestTriangleWritesMatrixAndRunsPlot(t *testing.T) {
	in := assemblies(t, "g1.fa", "g2.fa")
	out := t.TempDir()
	rec := &faketool.Recorder{Fn: func(inv runner.Invocation) (runner.Result, error) {
		if inv.Stdout != nil {
			inv.Stdout.Write([]byte("2\ng1\ng2 99.0\n"))
		}
		return runner.Result{}, nil
	}}
	matrix := filepath.Join(out, "skani_ani_matrix.txt")
	err := Triangle(context.Background(), TriangleConfig{
		InputDir:   in,
		Matrix:     matrix,
		PlotScript: "clustermap_triangle.py",
		Launcher:   rec,
	})
	if err != nil {
		t.Fatal(err)
	}
	calls := rec.Calls()
	if len(calls) != 2 {
		t.Fatalf("calls %v", calls)
	}
	if calls[0].Name != "skani" || calls[0].Args[0] != "triangle" || len(calls[0].Args) != 3 {
		t.Fatalf("triangle call %v", calls[0])
	}
	if calls[1].Name != "python" || calls[1].Args[0] != "clustermap_triangle.py" {
		t.Fatalf("plot call %v", calls[1])
	}
	if b, _ := os.ReadFile(matrix); !strings.HasPrefix(string(b), "2\n") {
		t.Fatalf("matrix %q", b)
	}
}
