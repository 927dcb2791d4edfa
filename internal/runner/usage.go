package runner

import "time"

// Usage is the resource usage of one finished child, from its rusage.
//
// SharedMem and UnsharedMem mirror ru_ixrss and ru_idrss (kilobytes as the
// kernel reports them; Linux leaves both at zero). MaxRSS is ru_maxrss in
// kilobytes.
type Usage struct {
	User        time.Duration
	System      time.Duration
	SharedMem   int64
	UnsharedMem int64
	MaxRSS      int64
}

// CPU is user plus system time.
func (u Usage) CPU() time.Duration { return u.User + u.System }

// Memory is shared plus unshared memory in bytes.
func (u Usage) Memory() int64 { return (u.SharedMem + u.UnsharedMem) * 1024 }

// PeakRSS is the maximum resident set size in bytes.
func (u Usage) PeakRSS() int64 { return u.MaxRSS * 1024 }
