package testutil

import "sync"

// DeterministicClock issues store version stamps in tests.
//
// It satisfies state.Clock. Unlike state.LogicalClock it can be reset or
// advanced, so a test can line up expected versions before dispatching.
//
// Thread-safety: all methods are safe for concurrent use.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock at 0. The first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next advances the clock by one and returns the new stamp.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the latest stamp.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Advance skips n stamps, as if n writes had happened elsewhere.
func (c *DeterministicClock) Advance(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq += n
}

// Reset puts the clock back to 0.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
