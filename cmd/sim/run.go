package main

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/customer"
	"github.com/Arrow-air/tool-simulation/eel"
	"github.com/Arrow-air/tool-simulation/settings"
	"github.com/Arrow-air/tool-simulation/simulation"
)

// runSimulation loads the input file and runs it to completion against the configured service.
func runSimulation(ctx context.Context, s settings.Settings, path string, logOutput io.Writer) (err error) {
	input, err := simulation.LoadInput(path)
	if err != nil {
		return err
	}

	obs, err := newObservabilityConfig(ctx, s, logOutput)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, obs.Shutdown()) }()

	runID := uuid.NewString()
	obs.Logger.Info("run starting", "run_id", runID, "mode", input.Mode(), "server_addr", s.ServerAddr)

	client, err := cargo.NewClient(s.ServerAddr, clientOptions(s, obs)...)
	if err != nil {
		return err
	}

	trafficLog, err := openJournal(ctx, s, obs)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, trafficLog.Close()) }()

	runner, err := simulation.NewRunner(client,
		simulation.WithTickInterval(s.TickInterval),
		simulation.WithLogger(obs.Logger),
		simulation.WithPoolOptions(poolOptions(s, obs)...),
		simulation.WithPlayerOptions(playerOptions(obs)...),
		simulation.WithGatewayDecorator(trafficLog.decorator(runID, obs)),
	)
	if err != nil {
		return err
	}

	_, err = runner.Run(ctx, input)

	return err
}

func clientOptions(s settings.Settings, obs ObservabilityConfig) []cargo.Option {
	options := []cargo.Option{
		cargo.WithTimeout(s.RequestTimeout),
		cargo.WithRateLimit(s.RateLimit, s.MaxInFlight),
		cargo.WithLogger(obs.Logger),
	}

	if obs.ContextualLogger != nil {
		options = append(options, cargo.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.MetricsCollector != nil {
		options = append(options, cargo.WithMetrics(obs.MetricsCollector))
	}
	if obs.TracingCollector != nil {
		options = append(options, cargo.WithTracing(obs.TracingCollector))
	}

	return options
}

func poolOptions(s settings.Settings, obs ObservabilityConfig) []customer.PoolOption {
	options := []customer.PoolOption{
		customer.WithFailureBudget(s.FailureBudget),
		customer.WithMaxInFlight(s.MaxInFlight),
		customer.WithLogger(obs.Logger),
	}

	if s.Seed != 0 {
		options = append(options, customer.WithRand(rand.New(rand.NewPCG(s.Seed, s.Seed>>1)))) //nolint:gosec // simulation randomness
	}
	if obs.ContextualLogger != nil {
		options = append(options, customer.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.MetricsCollector != nil {
		options = append(options, customer.WithMetrics(obs.MetricsCollector))
	}
	if obs.TracingCollector != nil {
		options = append(options, customer.WithTracing(obs.TracingCollector))
	}

	return options
}

func playerOptions(obs ObservabilityConfig) []eel.PlayerOption {
	options := []eel.PlayerOption{eel.WithLogger(obs.Logger)}

	if obs.ContextualLogger != nil {
		options = append(options, eel.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.MetricsCollector != nil {
		options = append(options, eel.WithMetrics(obs.MetricsCollector))
	}
	if obs.TracingCollector != nil {
		options = append(options, eel.WithTracing(obs.TracingCollector))
	}

	return options
}
