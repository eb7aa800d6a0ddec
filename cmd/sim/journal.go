package main

import (
	"context"
	"errors"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/eel"
	"github.com/Arrow-air/tool-simulation/journal"
	"github.com/Arrow-air/tool-simulation/journal/postgresjournal"
	"github.com/Arrow-air/tool-simulation/settings"
	"github.com/Arrow-air/tool-simulation/simclock"
	"github.com/Arrow-air/tool-simulation/simulation"
)

// trafficJournal collects the recorders a run writes its traffic to.
type trafficJournal struct {
	recorders journal.Recorders
	closers   []func() error
}

// openJournal opens the Postgres store and the event log file the settings ask for.
// A journal without recorders records nothing.
func openJournal(ctx context.Context, s settings.Settings, obs ObservabilityConfig) (*trafficJournal, error) {
	j := &trafficJournal{}

	if s.Journal.Adapter != settings.JournalNone {
		store, closeStore, err := connectStore(ctx, s, obs)
		if err != nil {
			return nil, err
		}

		j.recorders = append(j.recorders, store)
		j.closers = append(j.closers, closeStore)
	}

	if s.Journal.EELOut != "" {
		fileRecorder := eel.NewFileRecorder(s.Journal.EELOut)
		j.recorders = append(j.recorders, fileRecorder)
		j.closers = append(j.closers, fileRecorder.Close)
	}

	return j, nil
}

func connectStore(ctx context.Context, s settings.Settings, obs ObservabilityConfig) (*postgresjournal.Store, func() error, error) {
	store, closeStore, err := postgresjournal.Connect(ctx, s.Journal.Adapter, s.Journal.DSN,
		postgresjournal.WithTableName(s.Journal.Table),
		postgresjournal.WithLogger(obs.Logger),
	)
	if err != nil {
		return nil, nil, err
	}

	if err := store.CreateTable(ctx); err != nil {
		return nil, nil, errors.Join(err, closeStore())
	}

	return store, closeStore, nil
}

// decorator wraps the run gateway so that every call is journaled under runID.
func (j *trafficJournal) decorator(runID string, obs ObservabilityConfig) simulation.GatewayDecorator {
	if len(j.recorders) == 0 {
		return nil
	}

	return func(next cargo.Gateway, clock simclock.Nower) (cargo.Gateway, error) {
		options := []journal.GatewayOption{journal.WithLogger(obs.Logger)}
		if obs.MetricsCollector != nil {
			options = append(options, journal.WithMetrics(obs.MetricsCollector))
		}

		return journal.NewRecordingGateway(next, j.recorders, clock, runID, options...)
	}
}

// Close closes every recorder; the event log file is written here.
func (j *trafficJournal) Close() error {
	var errs []error
	for _, closeRecorder := range j.closers {
		errs = append(errs, closeRecorder())
	}

	return errors.Join(errs...)
}

// exportEventLog converts the journaled traffic of runID into an event log file.
func exportEventLog(ctx context.Context, s settings.Settings, runID, out string) (int, error) {
	store, closeStore, err := postgresjournal.Connect(ctx, s.Journal.Adapter, s.Journal.DSN,
		postgresjournal.WithTableName(s.Journal.Table),
	)
	if err != nil {
		return 0, err
	}
	defer func() { _ = closeStore() }()

	entries, err := store.Query(ctx, runID)
	if err != nil {
		return 0, err
	}

	log, err := eel.FromEntries(entries)
	if err != nil {
		return 0, err
	}

	if err := log.WriteFile(out); err != nil {
		return 0, err
	}

	return log.Len(), nil
}
