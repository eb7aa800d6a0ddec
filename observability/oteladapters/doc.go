// Package oteladapters provides OpenTelemetry implementations of the observability interfaces,
// so the simulator can export logs, metrics, and traces without custom glue code.
//
//   - SlogBridgeLogger: observability.ContextualLogger over the otelslog bridge
//   - MetricsCollector: observability.ContextualMetricsCollector over an otel metric.Meter
//   - TracingCollector: observability.TracingCollector over an otel trace.Tracer
package oteladapters
