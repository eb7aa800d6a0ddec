package simclock

import "time"

// WallFunc returns the current wall-clock time. It must not go backwards; Now inherits its
// ordering. time.Now qualifies through its monotonic reading.
type WallFunc func() time.Time

// Nower is anything that can report the current simulated time.
type Nower interface {
	Now() time.Time
}

// Clock maps elapsed wall-clock time onto a simulated timeline. It is immutable after creation.
type Clock struct {
	start  time.Time
	end    time.Time
	anchor time.Time
	wall   WallFunc
}

// Option configures a Clock.
type Option func(*Clock)

// WithWallClock replaces time.Now as the wall-clock source.
func WithWallClock(wall WallFunc) Option {
	return func(c *Clock) {
		if wall != nil {
			c.wall = wall
		}
	}
}

// New creates a Clock that starts at start, ends at start+duration, and is anchored at the current wall time.
// A negative duration is treated as zero.
func New(start time.Time, duration time.Duration, options ...Option) Clock {
	if duration < 0 {
		duration = 0
	}

	c := Clock{
		start: start,
		end:   start.Add(duration),
		wall:  time.Now,
	}

	for _, option := range options {
		option(&c)
	}

	c.anchor = c.wall()

	return c
}

// Now returns the current simulated time.
func (c Clock) Now() time.Time {
	return c.start.Add(c.Elapsed())
}

// Elapsed returns the wall-clock time elapsed since the anchor. Readings before the anchor count as zero.
func (c Clock) Elapsed() time.Duration {
	elapsed := c.wall().Sub(c.anchor)
	if elapsed < 0 {
		return 0
	}

	return elapsed
}

// IsOver reports whether the simulated time has reached the end of the run.
func (c Clock) IsOver() bool {
	return !c.Now().Before(c.end)
}

// Start returns the simulated start instant.
func (c Clock) Start() time.Time {
	return c.start
}

// End returns the simulated instant at which the run terminates.
func (c Clock) End() time.Time {
	return c.end
}
