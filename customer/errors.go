package customer

import "errors"

var (
	// ErrNotEnoughVertiports is the step failure when the service knows fewer than two vertiports.
	ErrNotEnoughVertiports = errors.New("not enough vertiports available")

	// ErrNoSelection is the step failure when the behavior policy picks no flight.
	ErrNoSelection = errors.New("no flight selected")

	// ErrInvalidFailureBudget is returned for a failure budget below one.
	ErrInvalidFailureBudget = errors.New("failure budget must be at least 1")

	// ErrInvalidMaxInFlight is returned for a concurrency limit below one.
	ErrInvalidMaxInFlight = errors.New("max in flight must be at least 1")

	// ErrNilRand is returned when a nil random generator is supplied.
	ErrNilRand = errors.New("random generator must not be nil")

	// ErrNilGateway is returned when the pool is created without a gateway.
	ErrNilGateway = errors.New("gateway must not be nil")

	// ErrNilClock is returned when the pool is created without a clock.
	ErrNilClock = errors.New("clock must not be nil")
)
