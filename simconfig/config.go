package simconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Arrow-air/tool-simulation/simclock"
)

var (
	// ErrReadFile is returned when the configuration file cannot be read.
	ErrReadFile = errors.New("could not read config file")

	// ErrInvalidConfig is returned when the configuration does not match the schema.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config describes a config-mode run.
type Config struct {
	Start      time.Time
	Duration   time.Duration
	Customers  uint
	Archetypes []string
}

// End returns the simulated instant at which the run terminates.
func (c Config) End() time.Time {
	return c.Start.Add(c.Duration)
}

type document struct {
	TimestampStart *simclock.Timestamp `yaml:"timestamp_start"`
	DurationS      *int64              `yaml:"duration_s"`
	NCustomers     *int64              `yaml:"n_customers"`
	CustomerTypes  *[]string           `yaml:"customer_types"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // the path is chosen by the operator
	if err != nil {
		return Config{}, errors.Join(ErrReadFile, err)
	}

	return Decode(data)
}

// Decode parses and validates a YAML configuration. Unknown keys, missing keys,
// negative numbers and an empty customer_types list are rejected.
func Decode(data []byte) (Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%w: empty document", ErrInvalidConfig)
		}

		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	return doc.toConfig()
}

func (d document) toConfig() (Config, error) {
	switch {
	case d.TimestampStart == nil:
		return Config{}, missing("timestamp_start")
	case d.DurationS == nil:
		return Config{}, missing("duration_s")
	case d.NCustomers == nil:
		return Config{}, missing("n_customers")
	case d.CustomerTypes == nil:
		return Config{}, missing("customer_types")
	}

	if err := checkRange("duration_s", *d.DurationS); err != nil {
		return Config{}, err
	}

	if err := checkRange("n_customers", *d.NCustomers); err != nil {
		return Config{}, err
	}

	if len(*d.CustomerTypes) == 0 {
		return Config{}, fmt.Errorf("%w: customer_types must not be empty", ErrInvalidConfig)
	}

	return Config{
		Start:      d.TimestampStart.Time,
		Duration:   time.Duration(*d.DurationS) * time.Second,
		Customers:  uint(*d.NCustomers),
		Archetypes: append([]string(nil), *d.CustomerTypes...),
	}, nil
}

// checkRange accepts values representable as an unsigned 32-bit integer.
func checkRange(key string, value int64) error {
	switch {
	case value < 0:
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, key, value)
	case value > math.MaxUint32:
		return fmt.Errorf("%w: %s must not exceed %d, got %d", ErrInvalidConfig, key, uint32(math.MaxUint32), value)
	default:
		return nil
	}
}

func missing(key string) error {
	return fmt.Errorf("%w: missing key %q", ErrInvalidConfig, key)
}
