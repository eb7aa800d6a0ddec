package observability

import (
	"context"
	"time"
)

// Metric names emitted by the simulation.
const (
	MetricAgentSteps            = "sim_agent_steps_total"
	MetricAgentStepDuration     = "sim_agent_step_duration_seconds"
	MetricAgentsAbandoned       = "sim_agents_abandoned_total"
	MetricAgentsActive          = "sim_agents_active"
	MetricEELEventsDispatched   = "sim_eel_events_dispatched_total"
	MetricCargoRequests         = "sim_cargo_requests_total"
	MetricCargoRequestDuration  = "sim_cargo_request_duration_seconds"
	MetricJournalAppendFailures = "sim_journal_append_failures_total"
)

// Label keys and values shared by the metric emitters.
const (
	LabelStatus    = "status"
	LabelResult    = "result"
	LabelOperation = "operation"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Span status values understood by the tracing adapters.
const (
	SpanStatusOK      = "ok"
	SpanStatusError   = "error"
	SpanStatusTimeout = "timeout"
)

// IncrementCounter increments the counter through the context-aware method when the collector supports it.
func IncrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if collector == nil {
		return
	}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// RecordDuration records the duration through the context-aware method when the collector supports it.
func RecordDuration(
	ctx context.Context,
	collector MetricsCollector,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {
	if collector == nil {
		return
	}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

// RecordValue records the value through the context-aware method when the collector supports it.
func RecordValue(ctx context.Context, collector MetricsCollector, metric string, value float64, labels map[string]string) {
	if collector == nil {
		return
	}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	collector.RecordValue(metric, value, labels)
}

// StartSpan starts a span if a collector is configured. The returned SpanContext is nil otherwise.
func StartSpan(ctx context.Context, collector TracingCollector, name string, attrs map[string]string) (context.Context, SpanContext) {
	if collector == nil {
		return ctx, nil
	}

	return collector.StartSpan(ctx, name, attrs)
}

// FinishSpan finishes a span started with StartSpan. It is a no-op for a nil span.
func FinishSpan(collector TracingCollector, span SpanContext, status string, attrs map[string]string) {
	if collector == nil || span == nil {
		return
	}

	collector.FinishSpan(span, status, attrs)
}
