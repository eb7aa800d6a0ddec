// Package simulation drives a run to completion.
//
// A config run spawns customer agents at the simulated start and ticks them until the
// simulated clock reaches start+duration. An event log run anchors the clock at the
// first event and releases events as they fall due until the log is exhausted.
// Both runs are paced by a ticker; nothing busy-waits.
package simulation
