package eel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/eel"
	"github.com/Arrow-air/tool-simulation/observability"
	"github.com/Arrow-air/tool-simulation/simclock"
	"github.com/Arrow-air/tool-simulation/testutil/testdoubles"
)

var simStart = time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)

type dispatchRecorder struct {
	dispatched []eel.Event
	failOn     map[string]bool
}

func (r *dispatchRecorder) Dispatch(_ context.Context, event eel.Event) error {
	r.dispatched = append(r.dispatched, event)

	if event.Payload.Confirm != nil && r.failOn[event.Payload.Confirm.PlanID] {
		return cargo.ErrTransport
	}

	return nil
}

func confirmAt(offset time.Duration, planID string) eel.Event {
	return eel.Event{
		Timestamp: simStart.Add(offset),
		Payload:   eel.CustomerEvent{Confirm: &cargo.FlightConfirm{PlanID: planID}},
	}
}

func newClock(wall *testdoubles.ManualWallClock) simclock.Clock {
	return simclock.New(simStart, time.Minute, simclock.WithWallClock(wall.Now))
}

func Test_NewPlayer_RequiresDispatcher(t *testing.T) {
	_, err := eel.NewPlayer(eel.Log{}, nil)

	assert.ErrorIs(t, err, eel.ErrNilDispatcher)
}

func Test_Player_ReleasesEventsWhenDue(t *testing.T) {
	recorder := &dispatchRecorder{}
	log := eel.Log{Events: []eel.Event{confirmAt(0, "first"), confirmAt(5*time.Second, "second")}}
	player, err := eel.NewPlayer(log, recorder)
	require.NoError(t, err)

	wall := testdoubles.NewManualWallClock(time.Now())
	clock := newClock(wall)
	ctx := context.Background()

	assert.Equal(t, 1, player.Poll(ctx, clock), "the t=0 event is due on the first poll")
	require.Len(t, recorder.dispatched, 1)
	assert.Equal(t, "first", recorder.dispatched[0].Payload.Confirm.PlanID)

	for second := 1; second < 5; second++ {
		wall.Advance(time.Second)
		assert.Zero(t, player.Poll(ctx, clock), "nothing is released early (t=%ds)", second)
	}

	wall.Advance(time.Second)
	assert.Equal(t, 1, player.Poll(ctx, clock))
	require.Len(t, recorder.dispatched, 2)
	assert.Equal(t, "second", recorder.dispatched[1].Payload.Confirm.PlanID)

	assert.True(t, player.Done())
	assert.Zero(t, player.Remaining())

	wall.Advance(time.Minute)
	assert.Zero(t, player.Poll(ctx, clock), "released events are never repeated")
	assert.Len(t, recorder.dispatched, 2)
}

func Test_Player_ReleasesAllDueEventsInOrder(t *testing.T) {
	recorder := &dispatchRecorder{}
	log := eel.Log{Events: []eel.Event{
		confirmAt(0, "a"),
		confirmAt(time.Second, "b"),
		confirmAt(time.Second, "c"),
		confirmAt(3*time.Second, "d"),
		confirmAt(10*time.Second, "e"),
	}}
	player, err := eel.NewPlayer(log, recorder)
	require.NoError(t, err)

	wall := testdoubles.NewManualWallClock(time.Now())
	clock := newClock(wall)
	wall.Advance(4 * time.Second)

	assert.Equal(t, 4, player.Poll(context.Background(), clock))
	assert.Equal(t, 4, player.Released())
	assert.Equal(t, 1, player.Remaining())

	next, ok := player.NextDue()
	require.True(t, ok)
	assert.Equal(t, simStart.Add(10*time.Second), next)

	planIDs := make([]string, 0, len(recorder.dispatched))
	for _, event := range recorder.dispatched {
		planIDs = append(planIDs, event.Payload.Confirm.PlanID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, planIDs)
}

func Test_Player_FailedDispatchStillConsumesTheEvent(t *testing.T) {
	recorder := &dispatchRecorder{failOn: map[string]bool{"broken": true}}
	logger := testdoubles.NewLoggerSpy()
	metrics := testdoubles.NewMetricsCollectorSpy()
	log := eel.Log{Events: []eel.Event{confirmAt(0, "broken"), confirmAt(0, "fine")}}
	player, err := eel.NewPlayer(log, recorder, eel.WithLogger(logger), eel.WithMetrics(metrics))
	require.NoError(t, err)

	released := player.Poll(context.Background(), newClock(testdoubles.NewManualWallClock(time.Now())))

	assert.Equal(t, 2, released)
	assert.Equal(t, 1, player.Failed())
	assert.True(t, player.Done())

	warnings := logger.Records(testdoubles.LevelWarn)
	require.Len(t, warnings, 1)
	index, _ := warnings[0].Attr("event_index")
	assert.Equal(t, 0, index)
	assert.True(t, logger.HasLog(testdoubles.LevelInfo, "event log exhausted"))

	assert.Equal(t, 1, metrics.CountCounter(observability.MetricEELEventsDispatched, map[string]string{
		observability.LabelResult: observability.ResultFailure,
	}))
	assert.Equal(t, 1, metrics.CountCounter(observability.MetricEELEventsDispatched, map[string]string{
		observability.LabelResult: observability.ResultSuccess,
	}))
}

func Test_Player_EmptyLogIsDone(t *testing.T) {
	player, err := eel.NewPlayer(eel.Log{}, eel.DispatcherFunc(func(context.Context, eel.Event) error {
		return errors.New("never called")
	}))
	require.NoError(t, err)

	assert.True(t, player.Done())
	assert.Zero(t, player.Poll(context.Background(), newClock(testdoubles.NewManualWallClock(time.Now()))))
	_, ok := player.NextDue()
	assert.False(t, ok)
}

func Test_Player_TracesDispatches(t *testing.T) {
	tracing := testdoubles.NewTracingCollectorSpy()
	log := eel.Log{Events: []eel.Event{confirmAt(0, "a")}}
	player, err := eel.NewPlayer(log, &dispatchRecorder{}, eel.WithTracing(tracing))
	require.NoError(t, err)

	player.Poll(context.Background(), newClock(testdoubles.NewManualWallClock(time.Now())))

	assert.Equal(t, 1, tracing.CountSpans("eel.dispatch", observability.SpanStatusOK))
}
