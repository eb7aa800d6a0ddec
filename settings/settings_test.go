package settings_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arrow-air/tool-simulation/settings"
)

func newCommand(t *testing.T) (*cobra.Command, *viper.Viper) {
	t.Helper()

	cmd := &cobra.Command{Use: "sim"}
	v := settings.New()
	require.NoError(t, settings.RegisterFlags(cmd, v))

	return cmd, v
}

func Test_Load_Defaults(t *testing.T) {
	_, v := newCommand(t)

	s, err := settings.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://0.0.0.0:8000", s.ServerAddr)
	assert.Equal(t, 100*time.Millisecond, s.TickInterval)
	assert.Equal(t, 5*time.Second, s.RequestTimeout)
	assert.Equal(t, 16, s.MaxInFlight)
	assert.Equal(t, 1, s.FailureBudget)
	assert.Zero(t, s.Seed)
	assert.Zero(t, s.RateLimit)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.False(t, s.Observability.Enabled)
	assert.Equal(t, settings.JournalNone, s.Journal.Adapter)
	assert.Equal(t, "cargo_journal", s.Journal.Table)
	assert.False(t, s.JournalEnabled())
}

func Test_Load_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SIM_MAX_IN_FLIGHT", "4")
	t.Setenv("SIM_LOG_LEVEL", "debug")
	t.Setenv("SIM_JOURNAL_ADAPTER", "sqlx")
	t.Setenv("SIM_JOURNAL_DSN", "postgres://sim@localhost/sim")
	_, v := newCommand(t)

	s, err := settings.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 4, s.MaxInFlight)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.Equal(t, settings.JournalSQLX, s.Journal.Adapter)
	assert.True(t, s.JournalEnabled())
}

func Test_Load_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SIM_SERVER_ADDR", "http://from-env:8000")
	cmd, v := newCommand(t)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{
		"--server_addr", "http://from-flag:8000",
		"--tick_interval", "250ms",
		"--seed", "7",
		"--journal-eel-out", "out.json",
	}))

	s, err := settings.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://from-flag:8000", s.ServerAddr)
	assert.Equal(t, 250*time.Millisecond, s.TickInterval)
	assert.Equal(t, uint64(7), s.Seed)
	assert.Equal(t, "out.json", s.Journal.EELOut)
	assert.True(t, s.JournalEnabled())
}

func Test_Load_ReadsSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_addr: http://cargo:9000
rate_limit: 12.5
observability:
  enabled: true
  trace_endpoint: collector:4317
journal:
  adapter: pgx
  dsn: postgres://sim@localhost/sim
  table: run_traffic
`), 0o600))

	cmd, v := newCommand(t)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--settings", path}))

	s, err := settings.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://cargo:9000", s.ServerAddr)
	assert.InDelta(t, 12.5, s.RateLimit, 0.0001)
	assert.True(t, s.Observability.Enabled)
	assert.Equal(t, "collector:4317", s.Observability.TraceEndpoint)
	assert.Equal(t, "localhost:4317", s.Observability.MetricEndpoint)
	assert.Equal(t, settings.JournalPGX, s.Journal.Adapter)
	assert.Equal(t, "run_traffic", s.Journal.Table)
}

func Test_Load_MissingSettingsFile(t *testing.T) {
	cmd, v := newCommand(t)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--settings", filepath.Join(t.TempDir(), "nope.yaml")}))

	_, err := settings.Load(v)

	assert.ErrorIs(t, err, settings.ErrReadSettingsFile)
}

func Test_Load_RejectsInvalidValues(t *testing.T) {
	tests := map[string][]string{
		"zero tick":            {"--tick_interval", "0s"},
		"zero timeout":         {"--request_timeout", "0s"},
		"zero in flight":       {"--max_in_flight", "0"},
		"zero budget":          {"--failure_budget", "0"},
		"negative rate limit":  {"--rate_limit", "-1"},
		"unknown log level":    {"--log_level", "chatty"},
		"unknown journal":      {"--journal-adapter", "mongo"},
		"journal without dsn":  {"--journal-adapter", "pgx"},
		"empty server address": {"--server_addr", " "},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, v := newCommand(t)
			require.NoError(t, cmd.PersistentFlags().Parse(args))

			_, err := settings.Load(v)
			assert.ErrorIs(t, err, settings.ErrInvalidSettings)
		})
	}
}
