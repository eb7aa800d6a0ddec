package eel

import (
	"context"
	"time"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/observability"
	"github.com/Arrow-air/tool-simulation/simclock"
)

const (
	logMsgEventReleased   = "event released"
	logMsgDispatchFailed  = "event dispatch failed"
	logMsgLogExhausted    = "event log exhausted"
	logAttrEventIndex     = "event_index"
	logAttrEventKind      = "event_kind"
	logAttrEventTimestamp = "event_timestamp"
	logAttrCause          = "cause"
	logAttrErrorType      = "error_type"
	logAttrReleased       = "released"
	logAttrFailed         = "failed"
	spanNameDispatch      = "eel.dispatch"
)

// PlayerOption defines a functional option for configuring a Player.
type PlayerOption func(*Player)

// WithLogger sets the logger for the Player.
//
// Debug level: every released event
// Info level: exhaustion of the log
// Warn level: failed dispatches.
func WithLogger(logger observability.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger observability.ContextualLogger) PlayerOption {
	return func(p *Player) {
		p.contextualLogger = logger
	}
}

// WithMetrics sets the metrics collector that counts dispatched events by result.
func WithMetrics(collector observability.MetricsCollector) PlayerOption {
	return func(p *Player) {
		p.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector; every dispatch becomes an "eel.dispatch" span.
func WithTracing(collector observability.TracingCollector) PlayerOption {
	return func(p *Player) {
		p.tracingCollector = collector
	}
}

// Player releases the events of a Log once they are due. It is not safe for concurrent use.
type Player struct {
	events     []Event
	cursor     int
	failed     int
	dispatcher Dispatcher

	logger           observability.Logger
	contextualLogger observability.ContextualLogger
	metricsCollector observability.MetricsCollector
	tracingCollector observability.TracingCollector
}

// NewPlayer creates a Player positioned at the first event of log.
func NewPlayer(log Log, dispatcher Dispatcher, options ...PlayerOption) (*Player, error) {
	if dispatcher == nil {
		return nil, ErrNilDispatcher
	}

	p := &Player{
		events:     log.Events,
		dispatcher: dispatcher,
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

// Poll dispatches, in order, every pending event whose timestamp is not after clock.Now(),
// and returns how many it released. It never waits for future events.
// A failed dispatch is logged and counted; the event is consumed all the same.
func (p *Player) Poll(ctx context.Context, clock simclock.Nower) int {
	now := clock.Now()
	released := 0

	for p.cursor < len(p.events) && !p.events[p.cursor].Timestamp.After(now) {
		index := p.cursor
		p.cursor++
		released++

		p.dispatch(ctx, index, p.events[index])
	}

	if released > 0 && p.Done() {
		p.info(ctx, logMsgLogExhausted, logAttrReleased, p.cursor, logAttrFailed, p.failed)
	}

	return released
}

func (p *Player) dispatch(ctx context.Context, index int, event Event) {
	kind := string(event.Payload.Kind())
	ctx, span := observability.StartSpan(ctx, p.tracingCollector, spanNameDispatch, map[string]string{
		logAttrEventKind: kind,
	})

	err := p.dispatcher.Dispatch(ctx, event)

	result := observability.ResultSuccess
	status := observability.SpanStatusOK
	if err != nil {
		p.failed++
		result = observability.ResultFailure
		status = observability.SpanStatusError
		p.warn(ctx, logMsgDispatchFailed,
			logAttrEventIndex, index,
			logAttrEventKind, kind,
			logAttrErrorType, cargo.ErrorType(err),
			logAttrCause, err.Error(),
		)
	} else {
		p.debug(ctx, logMsgEventReleased,
			logAttrEventIndex, index,
			logAttrEventKind, kind,
			logAttrEventTimestamp, event.Timestamp.Format(time.RFC3339Nano),
		)
	}

	observability.IncrementCounter(ctx, p.metricsCollector, observability.MetricEELEventsDispatched, map[string]string{
		observability.LabelResult: result,
	})
	observability.FinishSpan(p.tracingCollector, span, status, nil)
}

// Done reports whether every event was released.
func (p *Player) Done() bool { return p.cursor >= len(p.events) }

// Remaining returns the number of events not yet released.
func (p *Player) Remaining() int { return len(p.events) - p.cursor }

// Released returns the number of events released so far.
func (p *Player) Released() int { return p.cursor }

// Failed returns the number of released events whose dispatch failed.
func (p *Player) Failed() int { return p.failed }

// NextDue returns the timestamp of the next pending event.
func (p *Player) NextDue() (time.Time, bool) {
	if p.Done() {
		return time.Time{}, false
	}

	return p.events[p.cursor].Timestamp, true
}

func (p *Player) debug(ctx context.Context, msg string, args ...any) {
	switch {
	case p.contextualLogger != nil:
		p.contextualLogger.DebugContext(ctx, msg, args...)
	case p.logger != nil:
		p.logger.Debug(msg, args...)
	}
}

func (p *Player) info(ctx context.Context, msg string, args ...any) {
	switch {
	case p.contextualLogger != nil:
		p.contextualLogger.InfoContext(ctx, msg, args...)
	case p.logger != nil:
		p.logger.Info(msg, args...)
	}
}

func (p *Player) warn(ctx context.Context, msg string, args ...any) {
	switch {
	case p.contextualLogger != nil:
		p.contextualLogger.WarnContext(ctx, msg, args...)
	case p.logger != nil:
		p.logger.Warn(msg, args...)
	}
}
