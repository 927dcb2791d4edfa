//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package usage

import (
	"errors"
	"time"
)

// ProcessCPU is unsupported here; the sampler records no samples and the
// summary reports CPU usage as missing.
func ProcessCPU() (time.Duration, error) {
	return 0, errors.New("cpu probe not supported on this platform")
}
