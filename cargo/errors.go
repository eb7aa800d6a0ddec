package cargo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport is returned when a request could not be delivered or timed out.
	ErrTransport = errors.New("cargo transport failure")

	// ErrProtocol is returned when the service answered with a non-success status.
	ErrProtocol = errors.New("cargo service returned a non-success status")

	// ErrDecode is returned when a response body could not be decoded.
	ErrDecode = errors.New("cargo response could not be decoded")

	// ErrEmptyResult is returned when the service answered with nothing usable.
	ErrEmptyResult = errors.New("cargo service returned an empty result")

	// ErrEmptyBaseURL is returned when the client is constructed without a base URL.
	ErrEmptyBaseURL = errors.New("base url must not be empty")

	// ErrInvalidTimeout is returned when a non-positive request timeout is configured.
	ErrInvalidTimeout = errors.New("request timeout must be positive")

	// ErrInvalidRateLimit is returned when a negative rate limit is configured.
	ErrInvalidRateLimit = errors.New("rate limit must not be negative")

	// ErrNilHTTPClient is returned when a nil http.Client is supplied.
	ErrNilHTTPClient = errors.New("http client must not be nil")
)

// StatusError carries the HTTP status of a protocol failure. It matches ErrProtocol with errors.Is.
type StatusError struct {
	Operation  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s: %d %s", ErrProtocol, e.Operation, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is makes errors.Is(err, ErrProtocol) succeed.
func (e *StatusError) Is(target error) bool {
	return target == ErrProtocol
}

// ErrorType classifies err for metrics labels and journal metadata.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrEmptyResult):
		return "empty_result"
	default:
		return "other"
	}
}
