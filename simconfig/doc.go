// Package simconfig loads the YAML configuration of a config-mode simulation run:
// when the run starts in simulated time, how long it lasts, how many customers it spawns,
// and which customer archetypes they are drawn from.
package simconfig
