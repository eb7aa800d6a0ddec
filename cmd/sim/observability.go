package main

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/Arrow-air/tool-simulation/observability"
	"github.com/Arrow-air/tool-simulation/observability/oteladapters"
	"github.com/Arrow-air/tool-simulation/observability/otelconfig"
	"github.com/Arrow-air/tool-simulation/settings"
)

const instrumentationName = "tool-simulation"

// ObservabilityConfig holds the observability adapters handed to the components.
type ObservabilityConfig struct {
	Logger           *slog.Logger
	ContextualLogger observability.ContextualLogger
	MetricsCollector observability.MetricsCollector
	TracingCollector observability.TracingCollector
	shutdown         func() error
}

// Shutdown flushes the exporters, if any.
func (c ObservabilityConfig) Shutdown() error {
	if c.shutdown == nil {
		return nil
	}

	return c.shutdown()
}

// newObservabilityConfig always provides a text logger on w. With observability enabled it also
// exports traces and metrics over OTLP and logs through the OpenTelemetry slog bridge.
func newObservabilityConfig(ctx context.Context, s settings.Settings, w io.Writer) (ObservabilityConfig, error) {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: s.LogLevel}))
	cfg := ObservabilityConfig{Logger: logger}

	if !s.Observability.Enabled {
		return cfg, nil
	}

	providers, err := otelconfig.NewProviders(ctx, instrumentationName, version, otelconfig.Endpoints{
		Trace:  s.Observability.TraceEndpoint,
		Metric: s.Observability.MetricEndpoint,
	})
	if err != nil {
		return ObservabilityConfig{}, err
	}

	cfg.ContextualLogger = oteladapters.NewSlogBridgeLogger(instrumentationName)
	cfg.MetricsCollector = oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))
	cfg.TracingCollector = oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))
	cfg.shutdown = providers.Shutdown

	logger.Info("observability enabled",
		"trace_endpoint", s.Observability.TraceEndpoint,
		"metric_endpoint", s.Observability.MetricEndpoint,
	)

	return cfg, nil
}
