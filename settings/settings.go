package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Setting keys.
const (
	KeySettingsFile           = "settings"
	KeyServerAddr             = "server_addr"
	KeyTickInterval           = "tick_interval"
	KeyRequestTimeout         = "request_timeout"
	KeyMaxInFlight            = "max_in_flight"
	KeyFailureBudget          = "failure_budget"
	KeySeed                   = "seed"
	KeyRateLimit              = "rate_limit"
	KeyLogLevel               = "log_level"
	KeyObservabilityEnabled   = "observability.enabled"
	KeyObservabilityTrace     = "observability.trace_endpoint"
	KeyObservabilityMetric    = "observability.metric_endpoint"
	KeyJournalAdapter         = "journal.adapter"
	KeyJournalDSN             = "journal.dsn"
	KeyJournalTable           = "journal.table"
	KeyJournalEELOut          = "journal.eel_out"
	envPrefix                 = "SIM"
	defaultServerAddr         = "http://0.0.0.0:8000"
	defaultTickInterval       = 100 * time.Millisecond
	defaultRequestTimeout     = 5 * time.Second
	defaultMaxInFlight        = 16
	defaultFailureBudget      = 1
	defaultLogLevel           = "info"
	defaultTraceEndpoint      = "localhost:4317"
	defaultMetricEndpoint     = "localhost:4317"
	defaultJournalTable       = "cargo_journal"
	defaultObservabilityState = false
)

// Journal adapters.
const (
	JournalNone = "none"
	JournalPGX  = "pgx"
	JournalSQL  = "sql"
	JournalSQLX = "sqlx"
)

var (
	// ErrReadSettingsFile is returned when the --settings file cannot be read.
	ErrReadSettingsFile = errors.New("could not read settings file")

	// ErrInvalidSettings is returned when a setting has an unusable value.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Observability controls the OpenTelemetry export.
type Observability struct {
	Enabled        bool
	TraceEndpoint  string
	MetricEndpoint string
}

// Journal controls where gateway traffic is recorded.
type Journal struct {
	Adapter string
	DSN     string
	Table   string
	EELOut  string
}

// Settings are the resolved runtime settings.
type Settings struct {
	ServerAddr     string
	TickInterval   time.Duration
	RequestTimeout time.Duration
	MaxInFlight    int
	FailureBudget  int
	Seed           uint64
	RateLimit      float64
	LogLevel       slog.Level
	Observability  Observability
	Journal        Journal
}

// JournalEnabled reports whether traffic is recorded anywhere.
func (s Settings) JournalEnabled() bool {
	return s.Journal.Adapter != JournalNone || s.Journal.EELOut != ""
}

// New creates a viper instance with the defaults and environment binding in place.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyServerAddr, defaultServerAddr)
	v.SetDefault(KeyTickInterval, defaultTickInterval)
	v.SetDefault(KeyRequestTimeout, defaultRequestTimeout)
	v.SetDefault(KeyMaxInFlight, defaultMaxInFlight)
	v.SetDefault(KeyFailureBudget, defaultFailureBudget)
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyRateLimit, 0.0)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyObservabilityEnabled, defaultObservabilityState)
	v.SetDefault(KeyObservabilityTrace, defaultTraceEndpoint)
	v.SetDefault(KeyObservabilityMetric, defaultMetricEndpoint)
	v.SetDefault(KeyJournalAdapter, JournalNone)
	v.SetDefault(KeyJournalDSN, "")
	v.SetDefault(KeyJournalTable, defaultJournalTable)
	v.SetDefault(KeyJournalEELOut, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// RegisterFlags defines the persistent flags of cmd and binds them to v.
func RegisterFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.PersistentFlags()

	flags.String(KeySettingsFile, "", "settings file (yaml, json or toml)")
	flags.String(KeyServerAddr, defaultServerAddr, "base URL of the cargo service")
	flags.Duration(KeyTickInterval, defaultTickInterval, "interval between simulation ticks")
	flags.Duration(KeyRequestTimeout, defaultRequestTimeout, "timeout of a single cargo request")
	flags.Int(KeyMaxInFlight, defaultMaxInFlight, "maximum number of concurrent agent steps")
	flags.Int(KeyFailureBudget, defaultFailureBudget, "failed steps tolerated per customer")
	flags.Uint64(KeySeed, 0, "random seed, 0 seeds from the clock")
	flags.Float64(KeyRateLimit, 0, "maximum cargo requests per second, 0 disables the limit")
	flags.String(KeyLogLevel, defaultLogLevel, "log level: debug, info, warn, error")
	flags.Bool("observability-enabled", defaultObservabilityState, "export traces and metrics over OTLP")
	flags.String("journal-adapter", JournalNone, "journal store: none, pgx, sql, sqlx")
	flags.String("journal-dsn", "", "postgres connection string of the journal store")
	flags.String("journal-eel-out", "", "write the traffic of this run as an event log to this file")

	bindings := map[string]string{
		KeySettingsFile:         KeySettingsFile,
		KeyServerAddr:           KeyServerAddr,
		KeyTickInterval:         KeyTickInterval,
		KeyRequestTimeout:       KeyRequestTimeout,
		KeyMaxInFlight:          KeyMaxInFlight,
		KeyFailureBudget:        KeyFailureBudget,
		KeySeed:                 KeySeed,
		KeyRateLimit:            KeyRateLimit,
		KeyLogLevel:             KeyLogLevel,
		KeyObservabilityEnabled: "observability-enabled",
		KeyJournalAdapter:       "journal-adapter",
		KeyJournalDSN:           "journal-dsn",
		KeyJournalEELOut:        "journal-eel-out",
	}

	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %q: %w", flag, err)
		}
	}

	return nil
}

// Load reads the optional settings file and resolves and validates all settings.
func Load(v *viper.Viper) (Settings, error) {
	if file := v.GetString(KeySettingsFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Join(ErrReadSettingsFile, err)
		}
	}

	s := Settings{
		ServerAddr:     strings.TrimSpace(v.GetString(KeyServerAddr)),
		TickInterval:   v.GetDuration(KeyTickInterval),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		MaxInFlight:    v.GetInt(KeyMaxInFlight),
		FailureBudget:  v.GetInt(KeyFailureBudget),
		Seed:           v.GetUint64(KeySeed),
		RateLimit:      v.GetFloat64(KeyRateLimit),
		Observability: Observability{
			Enabled:        v.GetBool(KeyObservabilityEnabled),
			TraceEndpoint:  v.GetString(KeyObservabilityTrace),
			MetricEndpoint: v.GetString(KeyObservabilityMetric),
		},
		Journal: Journal{
			Adapter: strings.ToLower(strings.TrimSpace(v.GetString(KeyJournalAdapter))),
			DSN:     v.GetString(KeyJournalDSN),
			Table:   v.GetString(KeyJournalTable),
			EELOut:  v.GetString(KeyJournalEELOut),
		},
	}

	if err := s.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %w", ErrInvalidSettings, KeyLogLevel, err)
	}

	if err := s.validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func (s Settings) validate() error {
	var errs []error

	if s.ServerAddr == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyServerAddr))
	}
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", KeyTickInterval, s.TickInterval))
	}
	if s.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", KeyRequestTimeout, s.RequestTimeout))
	}
	if s.MaxInFlight < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", KeyMaxInFlight, s.MaxInFlight))
	}
	if s.FailureBudget < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", KeyFailureBudget, s.FailureBudget))
	}
	if s.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %g", KeyRateLimit, s.RateLimit))
	}

	switch s.Journal.Adapter {
	case JournalNone:
	case JournalPGX, JournalSQL, JournalSQLX:
		if s.Journal.DSN == "" {
			errs = append(errs, fmt.Errorf("%s is required for adapter %q", KeyJournalDSN, s.Journal.Adapter))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be one of none, pgx, sql, sqlx, got %q", KeyJournalAdapter, s.Journal.Adapter))
	}

	if len(errs) == 0 {
		return nil
	}

	return errors.Join(append([]error{ErrInvalidSettings}, errs...)...)
}
