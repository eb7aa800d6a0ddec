package postgresjournal_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arrow-air/tool-simulation/journal"
	"github.com/Arrow-air/tool-simulation/journal/postgresjournal"
)

// postgresDSNEnv names the database used by the integration tests; they are skipped when it is unset.
const postgresDSNEnv = "SIM_TEST_POSTGRES_DSN"

func Test_Store_AppendAndQuery_AgainstPostgres(t *testing.T) {
	dsn := os.Getenv(postgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", postgresDSNEnv)
	}

	for _, adapter := range []string{postgresjournal.AdapterPGX, postgresjournal.AdapterSQL, postgresjournal.AdapterSQLX} {
		t.Run(adapter, func(t *testing.T) {
			ctx := context.Background()
			table := fmt.Sprintf("journal_test_%s", adapter)

			store, closeDB, err := postgresjournal.Connect(ctx, adapter, dsn, postgresjournal.WithTableName(table))
			require.NoError(t, err)
			t.Cleanup(func() { _ = closeDB() })

			require.NoError(t, store.CreateTable(ctx))

			runID := uuid.NewString()
			start := time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)
			require.NoError(t, store.Append(ctx,
				journal.Entry{
					Type:       journal.TypeCargoCreate,
					OccurredAt: start,
					Payload:    []byte(`{"vertiport_depart_id":"a","vertiport_arrive_id":"b","cargo_weight_kg":1}`),
					Metadata:   journal.Metadata{RunID: runID, Outcome: journal.OutcomeOK},
				},
				journal.Entry{
					Type:       journal.TypeCargoConfirm,
					OccurredAt: start.Add(time.Second),
					Payload:    []byte(`{"fp_id":"draft-1"}`),
					Metadata:   journal.Metadata{RunID: runID, Outcome: journal.OutcomeOK, PlanID: "plan-1"},
				},
			))

			entries, err := store.Query(ctx, runID)
			require.NoError(t, err)

			require.Len(t, entries, 2)
			assert.Equal(t, journal.TypeCargoCreate, entries[0].Type)
			assert.True(t, start.Equal(entries[0].OccurredAt))
			assert.Equal(t, "plan-1", entries[1].Metadata.PlanID)
			assert.JSONEq(t, `{"fp_id":"draft-1"}`, string(entries[1].Payload))
		})
	}
}
