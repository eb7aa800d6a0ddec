package testdoubles

import (
	"sync"
	"time"
)

// ManualWallClock is a wall clock for tests. Its Now method can be passed wherever a func() time.Time is expected.
type ManualWallClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualWallClock creates a clock frozen at start.
func NewManualWallClock(start time.Time) *ManualWallClock {
	return &ManualWallClock{now: start}
}

// Now returns the current reading.
func (c *ManualWallClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualWallClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *ManualWallClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = t
}
