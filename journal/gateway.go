package journal

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/observability"
	"github.com/Arrow-air/tool-simulation/simclock"
)

const (
	appendTimeout = 5 * time.Second

	logMsgAppendFailed = "journal append failed"
	logAttrEntryType   = "entry_type"
	logAttrError       = "error"
)

// GatewayOption defines a functional option for configuring a RecordingGateway.
type GatewayOption func(*RecordingGateway)

// WithLogger sets the logger that reports failed appends at warn level.
func WithLogger(logger observability.Logger) GatewayOption {
	return func(g *RecordingGateway) {
		g.logger = logger
	}
}

// WithMetrics sets the metrics collector that counts failed appends.
func WithMetrics(collector observability.MetricsCollector) GatewayOption {
	return func(g *RecordingGateway) {
		g.metricsCollector = collector
	}
}

// RecordingGateway is a cargo.Gateway that journals every call of the gateway it wraps.
// A failed append is logged and counted; it never fails the call.
type RecordingGateway struct {
	next             cargo.Gateway
	recorder         Recorder
	clock            simclock.Nower
	runID            string
	logger           observability.Logger
	metricsCollector observability.MetricsCollector
}

// NewRecordingGateway wraps next. Entries are stamped with clock and tagged with runID.
func NewRecordingGateway(
	next cargo.Gateway,
	recorder Recorder,
	clock simclock.Nower,
	runID string,
	options ...GatewayOption,
) (*RecordingGateway, error) {
	switch {
	case next == nil:
		return nil, ErrNilGateway
	case recorder == nil:
		return nil, ErrNilRecorder
	case clock == nil:
		return nil, ErrNilClock
	case runID == "":
		return nil, ErrEmptyRunID
	}

	g := &RecordingGateway{
		next:     next,
		recorder: recorder,
		clock:    clock,
		runID:    runID,
	}

	for _, option := range options {
		option(g)
	}

	return g, nil
}

// Vertiports implements cargo.Gateway.
func (g *RecordingGateway) Vertiports(ctx context.Context, query cargo.VertiportsQuery) ([]cargo.Vertiport, error) {
	at := g.clock.Now()
	vertiports, err := g.next.Vertiports(ctx, query)
	g.record(ctx, TypeCargoVertiports, at, query, err, "")

	return vertiports, err
}

// QueryFlights implements cargo.Gateway.
func (g *RecordingGateway) QueryFlights(ctx context.Context, query cargo.FlightQuery) ([]cargo.FlightOption, error) {
	at := g.clock.Now()
	options, err := g.next.QueryFlights(ctx, query)
	g.record(ctx, TypeCargoCreate, at, query, err, "")

	return options, err
}

// Confirm implements cargo.Gateway.
func (g *RecordingGateway) Confirm(ctx context.Context, confirm cargo.FlightConfirm) (string, error) {
	at := g.clock.Now()
	planID, err := g.next.Confirm(ctx, confirm)
	g.record(ctx, TypeCargoConfirm, at, confirm, err, planID)

	return planID, err
}

// Cancel implements cargo.Gateway.
func (g *RecordingGateway) Cancel(ctx context.Context, cancel cargo.FlightCancel) error {
	at := g.clock.Now()
	err := g.next.Cancel(ctx, cancel)
	g.record(ctx, TypeCargoCancel, at, cancel, err, "")

	return err
}

func (g *RecordingGateway) record(
	ctx context.Context,
	entryType EntryType,
	at time.Time,
	request any,
	callErr error,
	planID string,
) {
	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(request)
	if err != nil {
		g.appendFailed(ctx, entryType, err)
		return
	}

	metadata := Metadata{
		RunID:      g.runID,
		CustomerID: cargo.CustomerIDFrom(ctx),
		Outcome:    OutcomeOK,
		PlanID:     planID,
	}
	if callErr != nil {
		metadata.Outcome = OutcomeFailed
		metadata.Cause = callErr.Error()
	}

	// The call's own deadline may already be spent; the append gets its own budget.
	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), appendTimeout)
	defer cancel()

	if err := g.recorder.Append(appendCtx, Entry{
		Type:       entryType,
		OccurredAt: at,
		Payload:    payload,
		Metadata:   metadata,
	}); err != nil {
		g.appendFailed(ctx, entryType, err)
	}
}

func (g *RecordingGateway) appendFailed(ctx context.Context, entryType EntryType, err error) {
	if g.logger != nil {
		g.logger.Warn(logMsgAppendFailed, logAttrEntryType, string(entryType), logAttrError, err.Error())
	}

	observability.IncrementCounter(ctx, g.metricsCollector, observability.MetricJournalAppendFailures, map[string]string{
		observability.LabelOperation: string(entryType),
	})
}

var _ cargo.Gateway = (*RecordingGateway)(nil)
