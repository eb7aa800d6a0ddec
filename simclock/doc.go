// Package simclock maps wall-clock time onto simulated time.
//
// A Clock is anchored at the wall time of its creation. From then on
//
//	Now() = start + (wall() - anchor)
//
// so simulated time advances at the same rate as real time, starting from a configured instant.
// Now is monotonically non-decreasing because it relies on the monotonic reading of time.Now.
//
// The package also provides Timestamp, the date-time scalar used by configuration and event log files.
package simclock
