//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package runner

import "os"

func usageOf(ps *os.ProcessState) Usage {
	return Usage{User: ps.UserTime(), System: ps.SystemTime()}
}
