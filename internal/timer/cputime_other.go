//go:build !unix

package timer

import "time"

// processCPUTime is unavailable without rusage; CPU time reports as zero.
func processCPUTime() time.Duration {
	return 0
}
