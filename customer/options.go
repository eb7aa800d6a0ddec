package customer

import (
	"math/rand/v2"

	"github.com/Arrow-air/tool-simulation/observability"
)

// PoolOption defines a functional option for configuring a Pool.
type PoolOption func(*Pool) error

// WithFailureBudget sets how many failed steps each spawned agent tolerates before it abandons its task.
func WithFailureBudget(budget int) PoolOption {
	return func(p *Pool) error {
		if budget < 1 {
			return ErrInvalidFailureBudget
		}

		p.failureBudget = budget

		return nil
	}
}

// WithMaxInFlight bounds the number of agent steps, and so gateway calls, running at the same time.
func WithMaxInFlight(limit int) PoolOption {
	return func(p *Pool) error {
		if limit < 1 {
			return ErrInvalidMaxInFlight
		}

		p.maxInFlight = limit

		return nil
	}
}

// WithRand sets the generator used to draw archetypes and to seed each agent's own generator.
func WithRand(rng *rand.Rand) PoolOption {
	return func(p *Pool) error {
		if rng == nil {
			return ErrNilRand
		}

		p.rng = rng

		return nil
	}
}

// WithLogger sets the logger for the pool and its agents.
//
// Debug level: spawned agents, advanced steps
// Info level: finished and abandoned agents
// Warn level: failed steps, unknown archetypes.
func WithLogger(logger observability.Logger) PoolOption {
	return func(p *Pool) error {
		p.obs.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger observability.ContextualLogger) PoolOption {
	return func(p *Pool) error {
		p.obs.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for step counts, step durations and abandoned agents.
func WithMetrics(collector observability.MetricsCollector) PoolOption {
	return func(p *Pool) error {
		p.obs.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector; every step becomes a "customer.step" span.
func WithTracing(collector observability.TracingCollector) PoolOption {
	return func(p *Pool) error {
		p.obs.tracingCollector = collector
		return nil
	}
}
