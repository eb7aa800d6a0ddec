package simclock_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Arrow-air/tool-simulation/simclock"
)

func Test_ParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"naive", "2022-10-01T12:00:00", simStart},
		{"naive with fraction", "2022-10-01T12:00:00.5", simStart.Add(500 * time.Millisecond)},
		{"rfc3339 utc", "2022-10-01T12:00:00Z", simStart},
		{"rfc3339 offset", "2022-10-01T14:00:00+02:00", simStart},
		{"space separated", "2022-10-01 12:00:00", simStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := simclock.ParseTimestamp(tt.input)

			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(parsed), "expected %s, got %s", tt.expected, parsed)
		})
	}
}

func Test_ParseTimestamp_Invalid(t *testing.T) {
	_, err := simclock.ParseTimestamp("yesterday")

	assert.ErrorIs(t, err, simclock.ErrInvalidTimestamp)
}

func Test_Timestamp_JSON(t *testing.T) {
	var ts simclock.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2022-10-01T12:00:00"`), &ts))
	assert.True(t, simStart.Equal(ts.Time))

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.JSONEq(t, `"2022-10-01T12:00:00"`, string(out))

	assert.ErrorIs(t, json.Unmarshal([]byte(`12`), &ts), simclock.ErrInvalidTimestamp)
}

func Test_Timestamp_YAML(t *testing.T) {
	var doc struct {
		At simclock.Timestamp `yaml:"at"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("at: 2022-10-01T12:00:00\n"), &doc))
	assert.True(t, simStart.Equal(doc.At.Time))

	err := yaml.Unmarshal([]byte("at: [1, 2]\n"), &doc)
	assert.ErrorIs(t, err, simclock.ErrInvalidTimestamp)
}
