// Package timer brackets the encode invocation with monotonic wall-clock and
// process CPU samples.
package timer

import (
	"fmt"
	"time"
)

// Elapsed is the measured cost of one bracketed region.
type Elapsed struct {
	Wall time.Duration
	CPU  time.Duration
}

// Seconds returns the wall time in seconds.
func (e Elapsed) Seconds() float64 {
	return e.Wall.Seconds()
}

// Timer measures a single region. It is not safe for concurrent use.
type Timer struct {
	now      func() time.Time
	cpu      func() time.Duration
	start    time.Time
	startCPU time.Duration
	running  bool
}

// New returns a timer backed by the monotonic clock and process rusage.
func New() *Timer {
	return &Timer{now: time.Now, cpu: processCPUTime}
}

// Start captures the opening samples, discarding any previous measurement.
func (t *Timer) Start() {
	t.start = t.now()
	t.startCPU = t.cpu()
	t.running = true
}

// Running reports whether Start was called without a matching Stop.
func (t *Timer) Running() bool {
	return t.running
}

// Stop captures the closing samples and returns the elapsed time. Stop without
// Start returns a zero Elapsed. Results are never negative.
func (t *Timer) Stop() Elapsed {
	if !t.running {
		return Elapsed{}
	}
	t.running = false
	wall := t.now().Sub(t.start)
	cpu := t.cpu() - t.startCPU
	return Elapsed{Wall: max(wall, 0), CPU: max(cpu, 0)}
}

// FormatSeconds renders d in the fixed-width three-decimal form used by the run report.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%12.3f", max(d, 0).Seconds())
}

// TotalTimeLine is the user-visible summary printed after the encode.
func TotalTimeLine(e Elapsed) string {
	return fmt.Sprintf("\n Total Time: %s sec.\n", FormatSeconds(e.Wall))
}
