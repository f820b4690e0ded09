package engine

import "time"

// Clock supplies wall-clock time. The TUI drives ticks once per second;
// the clock is read for commit timestamps and prompt ranges.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the local wall clock.
func SystemClock() Clock { return systemClock{} }

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
