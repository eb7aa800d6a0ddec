// Package customer drives synthetic customers through the cargo booking workflow.
//
// An Agent is a small state machine:
//
//	AwaitingRoute -> AwaitingOptions -> AwaitingSelection -> AwaitingCancelDecision -> Done
//
// Each call to Step performs at most one request against the cargo.Gateway.
// A failed step leaves the status unchanged and costs one unit of the agent's
// failure budget; an agent whose budget reaches zero is forced to Done and
// counts as abandoned.
//
// A Pool spawns agents with archetypes drawn from a configured list and steps
// every active agent once per Tick, concurrently and bounded by a maximum
// number of in-flight steps.
package customer
