package state

import "sync/atomic"

// Clock issues the version stamps attached to sections.
// Implemented by LogicalClock (production) and testutil.DeterministicClock.
type Clock interface {
	Next() int64
	Current() int64
}

// LogicalClock is a monotonic logical clock.
//
// Stamps come from a counter, never from wall time, so the same sequence of
// dispatches always yields the same versions.
//
// Thread-safety: LogicalClock is safe for concurrent use (atomic operations).
type LogicalClock struct {
	seq atomic.Int64
}

// NewLogicalClock creates a clock starting at 0. The first Next returns 1.
func NewLogicalClock() *LogicalClock {
	return &LogicalClock{}
}

// Next returns the next stamp and advances the clock.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the latest stamp without advancing.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}
