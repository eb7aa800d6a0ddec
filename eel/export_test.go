package eel_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/eel"
	"github.com/Arrow-air/tool-simulation/journal"
	"github.com/Arrow-air/tool-simulation/testutil/testdoubles"
)

func recordSession(t *testing.T, recorder journal.Recorder) {
	t.Helper()

	wall := testdoubles.NewManualWallClock(simStart)
	inner := testdoubles.NewFakeGateway()
	inner.CancelFunc = func(context.Context, cargo.FlightCancel) error {
		return &cargo.StatusError{Operation: cargo.OperationCancel, StatusCode: 404}
	}

	gateway, err := journal.NewRecordingGateway(inner, recorder, wall, "run-1")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = gateway.Vertiports(ctx, cargo.VertiportsQuery{Latitude: 100, Longitude: 100})
	require.NoError(t, err)

	wall.Advance(time.Second)
	_, err = gateway.QueryFlights(ctx, cargo.FlightQuery{VertiportDepartID: "vertiport-a", VertiportArriveID: "vertiport-b", CargoWeightKg: 1})
	require.NoError(t, err)

	wall.Advance(2 * time.Second)
	_, err = gateway.Confirm(ctx, cargo.FlightConfirm{PlanID: "draft-1"})
	require.NoError(t, err)

	wall.Advance(time.Second)
	require.Error(t, gateway.Cancel(ctx, cargo.FlightCancel{PlanID: "confirmed-draft-1"}))
}

func Test_FromEntries_ConvertsRecordedCalls(t *testing.T) {
	recorder := journal.NewMemoryRecorder()
	recordSession(t, recorder)

	log, err := eel.FromEntries(recorder.Entries())
	require.NoError(t, err)

	require.Equal(t, 3, log.Len(), "vertiport lookups are not customer events")
	assert.Equal(t, eel.KindCargoCreate, log.Events[0].Payload.Kind())
	assert.Equal(t, simStart.Add(time.Second), log.Events[0].Timestamp)
	assert.Equal(t, "vertiport-a", log.Events[0].Payload.Create.VertiportDepartID)
	assert.Equal(t, &cargo.FlightConfirm{PlanID: "draft-1"}, log.Events[1].Payload.Confirm)
	assert.Equal(t, &cargo.FlightCancel{PlanID: "confirmed-draft-1"}, log.Events[2].Payload.Cancel,
		"failed calls are kept")
	assert.NoError(t, log.Validate())
}

func Test_FromEntries_SortsBySimulatedTime(t *testing.T) {
	entries := []journal.Entry{
		{Type: journal.TypeCargoCancel, OccurredAt: simStart.Add(3 * time.Second), Payload: []byte(`{"fp_id":"late"}`)},
		{Type: journal.TypeCargoConfirm, OccurredAt: simStart.Add(time.Second), Payload: []byte(`{"fp_id":"early"}`)},
		{Type: journal.TypeCargoConfirm, OccurredAt: simStart.Add(time.Second), Payload: []byte(`{"fp_id":"early-second"}`)},
	}

	log, err := eel.FromEntries(entries)
	require.NoError(t, err)

	require.Equal(t, 3, log.Len())
	assert.Equal(t, "early", log.Events[0].Payload.Confirm.PlanID)
	assert.Equal(t, "early-second", log.Events[1].Payload.Confirm.PlanID)
	assert.Equal(t, "late", log.Events[2].Payload.Cancel.PlanID)
}

func Test_FromEntries_RejectsCorruptPayload(t *testing.T) {
	_, err := eel.FromEntries([]journal.Entry{
		{Type: journal.TypeCargoConfirm, OccurredAt: simStart, Payload: []byte(`{"fp_id":`)},
	})

	assert.ErrorIs(t, err, eel.ErrInvalidLog)
}

func Test_FileRecorder_WritesLoadableLogOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recorded.json")
	recorder := eel.NewFileRecorder(path)
	recordSession(t, recorder)

	require.NoError(t, recorder.Close())
	require.NoError(t, recorder.Close())

	log, err := eel.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, log.Len())

	err = recorder.Append(context.Background(), journal.Entry{Type: journal.TypeCargoConfirm})
	assert.ErrorIs(t, err, eel.ErrRecorderClosed)
}
