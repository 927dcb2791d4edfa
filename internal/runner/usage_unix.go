//go:build linux || darwin || freebsd || netbsd || openbsd

package runner

import (
	"os"
	"syscall"
	"time"
)

func usageOf(ps *os.ProcessState) Usage {
	ru, ok := ps.SysUsage().(*syscall.Rusage)
	if !ok || ru == nil {
		return Usage{}
	}
	return Usage{
		User:        time.Duration(ru.Utime.Nano()),
		System:      time.Duration(ru.Stime.Nano()),
		SharedMem:   int64(ru.Ixrss),
		UnsharedMem: int64(ru.Idrss),
		MaxRSS:      int64(ru.Maxrss),
	}
}
