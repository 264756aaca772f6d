package timer

import (
	"strings"
	"testing"
	"time"
)

func fakeTimer(wall []time.Time, cpu []time.Duration) *Timer {
	var wi, ci int
	return &Timer{
		now: func() time.Time {
			v := wall[wi]
			wi++
			return v
		},
		cpu: func() time.Duration {
			v := cpu[ci]
			ci++
			return v
		},
	}
}

func TestTimerMeasuresBracketedRegion(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tm := fakeTimer(
		[]time.Time{base, base.Add(2500 * time.Millisecond)},
		[]time.Duration{time.Second, 3 * time.Second},
	)
	tm.Start()
	if !tm.Running() {
		t.Fatal("expected timer running after Start")
	}
	got := tm.Stop()
	if got.Wall != 2500*time.Millisecond || got.CPU != 2*time.Second {
		t.Fatalf("unexpected elapsed %+v", got)
	}
	if got.Seconds() != 2.5 {
		t.Fatalf("expected 2.5 seconds, got %f", got.Seconds())
	}
}

func TestTimerClampsNegative(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tm := fakeTimer(
		[]time.Time{base, base.Add(-time.Second)},
		[]time.Duration{2 * time.Second, time.Second},
	)
	tm.Start()
	got := tm.Stop()
	if got.Wall != 0 || got.CPU != 0 {
		t.Fatalf("expected clamped zero elapsed, got %+v", got)
	}
}

func TestStopWithoutStartIsZero(t *testing.T) {
	tm := New()
	if got := tm.Stop(); got != (Elapsed{}) {
		t.Fatalf("expected zero elapsed, got %+v", got)
	}
}

func TestRealTimerZeroWorkIsNearZero(t *testing.T) {
	tm := New()
	tm.Start()
	got := tm.Stop()
	if got.Wall < 0 || got.CPU < 0 {
		t.Fatalf("elapsed must be non-negative, got %+v", got)
	}
	if got.Wall > 50*time.Millisecond {
		t.Fatalf("empty region took %s", got.Wall)
	}
	if line := TotalTimeLine(got); !strings.Contains(line, "Total Time:") || strings.Contains(line, "-") {
		t.Fatalf("unexpected total time line %q", line)
	}
}

func TestTotalTimeLineFormat(t *testing.T) {
	got := TotalTimeLine(Elapsed{Wall: 1234567 * time.Millisecond})
	want := "\n Total Time:     1234.567 sec.\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
