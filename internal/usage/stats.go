package usage

import (
	"fmt"
	"math"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"gonum.org/v1/gonum/stat"

	"genopipe/internal/runner"
)

// Stats accumulates the rusage of every invocation of one tool.
type Stats struct {
	cpu  []float64 // seconds, user+system
	mem  []float64 // bytes, shared+unshared
	peak int64
}

// Add records one finished invocation.
func (s *Stats) Add(u runner.Usage) {
	s.cpu = append(s.cpu, u.CPU().Seconds())
	s.mem = append(s.mem, float64(u.Memory()))
	if p := u.PeakRSS(); p > s.peak {
		s.peak = p
	}
}

// Len is the number of recorded invocations.
func (s *Stats) Len() int { return len(s.cpu) }

// MeanCPU is the arithmetic mean of user+system time per invocation.
func (s *Stats) MeanCPU() (time.Duration, bool) {
	if len(s.cpu) == 0 {
		return 0, false
	}
	return time.Duration(stat.Mean(s.cpu, nil) * float64(time.Second)), true
}

// MeanMemory is the arithmetic mean of shared+unshared memory in bytes.
func (s *Stats) MeanMemory() (float64, bool) {
	if len(s.mem) == 0 {
		return 0, false
	}
	return stat.Mean(s.mem, nil), true
}

// Summary is the per-tool report of one batch. Fields whose Valid flag is
// false are missing values, not zeros.
type Summary struct {
	Tool        string
	Invocations int
	Wall        time.Duration

	CPUPercent float64
	CPUValid   bool

	MeanCPU      time.Duration
	MeanMemory   float64
	MeansValid   bool
	PeakRSSBytes int64
}

// Summarize combines s with the batch wall time and the sampler result.
// CPU utilisation is only defined when at least one invocation ran.
func (s *Stats) Summarize(tool string, wall time.Duration, cpuPercent float64, cpuOK bool) Summary {
	sum := Summary{
		Tool:         tool,
		Invocations:  s.Len(),
		Wall:         wall,
		PeakRSSBytes: s.peak,
	}
	if sum.Invocations > 0 && cpuOK && !math.IsNaN(cpuPercent) {
		sum.CPUPercent = clamp(cpuPercent, 0, 100)
		sum.CPUValid = true
	}
	if c, ok := s.MeanCPU(); ok {
		m, _ := s.MeanMemory()
		sum.MeanCPU, sum.MeanMemory, sum.MeansValid = c, m, true
	}
	return sum
}

const missing = "n/a"

// WallMinutes is the wall time in minutes rounded to two places.
func (s Summary) WallMinutes() float64 {
	return math.Round(s.Wall.Minutes()*100) / 100
}

// CPUString renders the normalised CPU percentage.
func (s Summary) CPUString() string {
	if !s.CPUValid {
		return missing
	}
	return fmt.Sprintf("%.2f %%", s.CPUPercent)
}

// TimeString renders the mean user+system time.
func (s Summary) TimeString() string {
	if !s.MeansValid {
		return missing
	}
	return FormatDuration(s.MeanCPU)
}

// MemoryString renders the mean shared+unshared memory.
func (s Summary) MemoryString() string {
	if !s.MeansValid {
		return missing
	}
	return FormatBytes(s.MeanMemory)
}

// String is the human-readable report printed after each tool.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s runtime: %.2f minutes\n", s.Tool, s.WallMinutes())
	fmt.Fprintf(&b, "CPU Usage %s\n", s.CPUString())
	fmt.Fprintf(&b, "Time (User+System): %s\n", s.TimeString())
	fmt.Fprintf(&b, "Memory (Shared+Unshared): %s\n", s.MemoryString())
	if s.PeakRSSBytes > 0 {
		fmt.Fprintf(&b, "Peak RSS: %s\n", FormatBytes(float64(s.PeakRSSBytes)))
	}
	return b.String()
}

// FormatDuration rounds d to the millisecond; "2.25s", "1m3.5s".
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}

// FormatBytes renders n with binary unit suffixes; "0B", "1.5M".
func FormatBytes(n float64) string {
	if n <= 0 || math.IsNaN(n) {
		return "0B"
	}
	return bytefmt.ByteSize(uint64(math.Round(n)))
}
