package simclock

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTimestamp is returned when a date-time value cannot be parsed.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Layouts accepted by ParseTimestamp, tried in order. Values without a zone are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
}

// Timestamp is a date-time scalar that accepts both RFC 3339 and zone-less ("naive") forms,
// e.g. "2022-10-01T12:00:00Z" and "2022-10-01T12:00:00".
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s with the accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// MarshalJSON writes the timestamp in the zone-less form the event log files use.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format("2006-01-02T15:04:05.999999999") + `"`), nil
}

// UnmarshalJSON parses a quoted date-time string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: expected a string, got %s", ErrInvalidTimestamp, s)
	}

	parsed, err := ParseTimestamp(s[1 : len(s)-1])
	if err != nil {
		return err
	}

	t.Time = parsed

	return nil
}

// UnmarshalYAML parses a date-time scalar, quoted or not.
func (t *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a scalar", ErrInvalidTimestamp, node.Line)
	}

	parsed, err := ParseTimestamp(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	t.Time = parsed

	return nil
}
