package behavior

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Arrow-air/tool-simulation/cargo"
)

// ErrUnknownArchetype is returned by Parse for names outside the closed set of archetypes.
var ErrUnknownArchetype = errors.New("unknown customer archetype")

// Kind identifies a behavior archetype.
type Kind int

// The supported archetypes.
const (
	KindGreedy Kind = iota
	KindMistake
	KindIndecisive
)

// String returns the archetype name as used in configuration files.
func (k Kind) String() string {
	switch k {
	case KindGreedy:
		return "greedy"
	case KindMistake:
		return "mistake"
	case KindIndecisive:
		return "indecisive"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Kinds returns every supported archetype.
func Kinds() []Kind {
	return []Kind{KindGreedy, KindMistake, KindIndecisive}
}

// Policy decides for one customer.
type Policy interface {
	Kind() Kind

	// Select returns the plan id to confirm, or false if the customer picks nothing.
	Select(options []cargo.FlightOption) (string, bool)

	// CancellationProbability is the chance, in [0, 1], of cancelling a confirmed flight.
	CancellationProbability() float64
}

// Parse maps an archetype name to its Kind, ignoring case and surrounding whitespace.
func Parse(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "greedy":
		return KindGreedy, nil
	case "mistake":
		return KindMistake, nil
	case "indecisive":
		return KindIndecisive, nil
	default:
		return KindGreedy, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
}

// New returns the Policy of the given Kind. Unknown kinds get the Greedy policy.
func New(kind Kind) Policy {
	switch kind {
	case KindMistake:
		return Mistake{}
	case KindIndecisive:
		return Indecisive{}
	default:
		return Greedy{}
	}
}

// Greedy confirms the first option it gets and never cancels.
type Greedy struct{}

func (Greedy) Kind() Kind { return KindGreedy }

func (Greedy) Select(options []cargo.FlightOption) (string, bool) {
	return first(options)
}

func (Greedy) CancellationProbability() float64 { return 0 }

// Mistake books by accident: it confirms the first option and always cancels.
type Mistake struct{}

func (Mistake) Kind() Kind { return KindMistake }

func (Mistake) Select(options []cargo.FlightOption) (string, bool) {
	return first(options)
}

func (Mistake) CancellationProbability() float64 { return 1 }

// Indecisive queries but never selects anything.
type Indecisive struct{}

func (Indecisive) Kind() Kind { return KindIndecisive }

func (Indecisive) Select([]cargo.FlightOption) (string, bool) {
	return "", false
}

// CancellationProbability is never consulted because an Indecisive customer never confirms.
func (Indecisive) CancellationProbability() float64 { return 1 }

func first(options []cargo.FlightOption) (string, bool) {
	if len(options) == 0 {
		return "", false
	}

	return options[0].PlanID, true
}
