// Package behavior defines how a simulated customer chooses among flight options
// and how likely it is to cancel a confirmed booking.
//
// The set of archetypes is closed: Greedy takes the first option and never
// cancels, Mistake takes the first option and always cancels, Indecisive never
// picks anything.
package behavior
