package cargo

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Arrow-air/tool-simulation/observability"
)

// Option defines a functional option for configuring a Client.
type Option func(*Client) error

// WithHTTPClient replaces the default pooled http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return ErrNilHTTPClient
		}

		c.httpClient = httpClient

		return nil
	}
}

// WithTimeout sets the per-call timeout. A call that exceeds it fails with ErrTransport.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}

		c.timeout = timeout

		return nil
	}
}

// WithRateLimit throttles outgoing calls to requestsPerSecond with the given burst.
// Zero disables throttling. Waiting for a token counts against the per-call timeout.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) error {
		if requestsPerSecond < 0 || burst < 0 {
			return ErrInvalidRateLimit
		}

		if requestsPerSecond == 0 {
			c.limiter = nil
			return nil
		}

		if burst == 0 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

		return nil
	}
}

// WithLogger sets the logger for the Client.
//
// Debug level: every call with its duration
// Warn level: failed calls with the error type.
func WithLogger(logger observability.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(c *Client) error {
		c.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector that receives request counts and durations.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(c *Client) error {
		c.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector; every call becomes a "cargo.<operation>" span.
func WithTracing(collector observability.TracingCollector) Option {
	return func(c *Client) error {
		c.tracingCollector = collector
		return nil
	}
}
