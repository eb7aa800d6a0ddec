// Package observability defines the small, dependency-free interfaces every simulation component
// uses for logging, metrics, and tracing, together with the shared metric names and helpers.
//
// All interfaces are optional: a nil Logger, MetricsCollector or TracingCollector simply disables
// that concern. OpenTelemetry implementations live in the oteladapters subpackage.
//
// Key types:
//   - Logger, ContextualLogger: satisfied by *slog.Logger
//   - MetricsCollector, ContextualMetricsCollector: counters, durations, gauges
//   - TracingCollector, SpanContext: span lifecycle
package observability
