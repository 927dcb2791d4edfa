// Package usage measures the resources a batch of tool invocations consumed.
//
// Stats accumulates per-invocation rusage; Sampler polls process-wide CPU
// utilisation on a timer for the whole batch. Summary combines both.
package usage

import (
	"math"
	"runtime"
	"sync"
	"time"
)

// Probe reports the cumulative CPU time consumed so far by this process and
// its waited-for children.
type Probe func() (time.Duration, error)

const (
	DefaultInterval = 10 * time.Millisecond
	DefaultCapacity = 4096
)

// Sampler polls a Probe every interval between Start and Stop. Each sample
// is the CPU utilisation over the last interval in percent of one core.
// Children are charged when reaped, so one sample may exceed 100*cores.
// Mean is total CPU time over total wall time; only it is clamped.
// The retained samples (a ring of the most recent ones) stay bounded however
// long the batch runs.
type Sampler struct {
	interval time.Duration
	cores    int
	probe    Probe
	now      func() time.Time

	mu      sync.Mutex
	ring    []float64
	next    int
	wrapped bool
	cpuSum  time.Duration
	wallSum time.Duration
	n       int
	lastCPU time.Duration
	lastAt  time.Time
	errs    int

	stop chan struct{}
	done chan struct{}
}

// NewSampler returns a sampler over the process CPU probe. Zero values of
// interval and capacity select the defaults.
func NewSampler(interval time.Duration, capacity int) *Sampler {
	return newSampler(interval, capacity, runtime.NumCPU(), ProcessCPU, time.Now)
}

func newSampler(interval time.Duration, capacity, cores int, probe Probe, now func() time.Time) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if cores < 1 {
		cores = 1
	}
	return &Sampler{
		interval: interval,
		cores:    cores,
		probe:    probe,
		now:      now,
		ring:     make([]float64, capacity),
	}
}

// Start begins sampling in a background goroutine. It must be paired with Stop.
func (s *Sampler) Start() {
	s.mu.Lock()
	s.lastCPU, _ = s.probe()
	s.lastAt = s.now()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-t.C:
				s.sample()
			}
		}
	}()
}

// Stop ends sampling, takes one last sample covering the tail of the batch
// and returns the mean utilisation divided by the core count. ok is false
// when no sample was taken.
func (s *Sampler) Stop() (percent float64, ok bool) {
	close(s.stop)
	<-s.done
	s.sample()
	return s.Mean()
}

// Mean returns the CPU utilisation since Start divided by the core count,
// clamped to [0, 100].
func (s *Sampler) Mean() (percent float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n == 0 || s.wallSum <= 0 {
		return math.NaN(), false
	}
	pct := 100 * float64(s.cpuSum) / float64(s.wallSum) / float64(s.cores)
	return clamp(pct, 0, 100), true
}

// Samples returns the retained samples, oldest first.
func (s *Sampler) Samples() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.wrapped {
		return append([]float64(nil), s.ring[:s.next]...)
	}
	out := make([]float64, 0, len(s.ring))
	out = append(out, s.ring[s.next:]...)
	return append(out, s.ring[:s.next]...)
}

// Count is the number of samples taken, including those no longer retained.
func (s *Sampler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func (s *Sampler) sample() {
	cpu, err := s.probe()
	at := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errs++
		return
	}
	wall := at.Sub(s.lastAt)
	if wall <= 0 {
		return
	}
	used := cpu - s.lastCPU
	if used < 0 {
		used = 0
	}
	s.lastCPU, s.lastAt = cpu, at
	s.cpuSum += used
	s.wallSum += wall
	s.add(100 * float64(used) / float64(wall))
}

func (s *Sampler) add(v float64) {
	s.ring[s.next] = v
	s.next++
	if s.next == len(s.ring) {
		s.next = 0
		s.wrapped = true
	}
	s.n++
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v) || v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
