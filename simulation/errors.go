package simulation

import "errors"

var (
	// ErrUnrecognizedInput is returned when a file is neither an event log nor a config.
	ErrUnrecognizedInput = errors.New("file is neither a valid event log nor a valid config")

	// ErrNilGateway is returned when a Runner is created without a gateway.
	ErrNilGateway = errors.New("gateway must not be nil")

	// ErrInvalidTickInterval is returned when a non-positive tick interval is configured.
	ErrInvalidTickInterval = errors.New("tick interval must be positive")
)
