package eel

import "errors"

var (
	// ErrReadFile is returned when an event log file cannot be read.
	ErrReadFile = errors.New("event log file could not be read")

	// ErrWriteFile is returned when an event log file cannot be written.
	ErrWriteFile = errors.New("event log file could not be written")

	// ErrInvalidLog is returned when an event log violates the schema.
	ErrInvalidLog = errors.New("invalid event log")

	// ErrNilDispatcher is returned when a player is created without a dispatcher.
	ErrNilDispatcher = errors.New("dispatcher must not be nil")

	// ErrNilGateway is returned when a gateway dispatcher is created without a gateway.
	ErrNilGateway = errors.New("gateway must not be nil")
)
