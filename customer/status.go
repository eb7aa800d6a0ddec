package customer

// Status is the phase of an agent's booking workflow.
type Status int

// Statuses in workflow order. An agent only ever moves forward through them.
const (
	StatusAwaitingRoute Status = iota
	StatusAwaitingOptions
	StatusAwaitingSelection
	StatusAwaitingCancelDecision
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusAwaitingRoute:
		return "awaiting_route"
	case StatusAwaitingOptions:
		return "awaiting_options"
	case StatusAwaitingSelection:
		return "awaiting_selection"
	case StatusAwaitingCancelDecision:
		return "awaiting_cancel_decision"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}
