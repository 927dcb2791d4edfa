//go:build linux || darwin || freebsd || netbsd || openbsd

package usage

import (
	"time"

	"golang.org/x/sys/unix"
)

// ProcessCPU sums user and system time of this process and of every child
// it has waited for. Children show up once reaped, so a sequential batch is
// fully accounted for after its last wait.
func ProcessCPU() (time.Duration, error) {
	var self, kids unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &self); err != nil {
		return 0, err
	}
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &kids); err != nil {
		return 0, err
	}
	ns := self.Utime.Nano() + self.Stime.Nano() + kids.Utime.Nano() + kids.Stime.Nano()
	return time.Duration(ns), nil
}
