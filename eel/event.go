package eel

import (
	"errors"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Arrow-air/tool-simulation/cargo"
)

var (
	strictJSON = jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		DisallowUnknownFields:  true,
		CaseSensitive:          true,
	}.Froze()

	prettyJSON = jsoniter.ConfigCompatibleWithStandardLibrary
)

// Kind names the variant of a CustomerEvent.
type Kind string

// Event variants as written in EEL files.
const (
	KindCargoCreate  Kind = "CargoCreate"
	KindCargoConfirm Kind = "CargoConfirm"
	KindCargoCancel  Kind = "CargoCancel"
)

// CustomerEvent is a cargo request made by an external customer. Exactly one field is set.
type CustomerEvent struct {
	Create  *cargo.FlightQuery
	Confirm *cargo.FlightConfirm
	Cancel  *cargo.FlightCancel
}

// Kind returns the variant of the event, or "" when not exactly one variant is set.
func (e CustomerEvent) Kind() Kind {
	var kind Kind
	set := 0

	if e.Create != nil {
		kind = KindCargoCreate
		set++
	}
	if e.Confirm != nil {
		kind = KindCargoConfirm
		set++
	}
	if e.Cancel != nil {
		kind = KindCargoCancel
		set++
	}

	if set != 1 {
		return ""
	}

	return kind
}

// Event is one timestamped entry of the log.
type Event struct {
	Timestamp time.Time
	Payload   CustomerEvent
}

// Log is an event sequence sorted ascending by timestamp.
type Log struct {
	Events []Event
}

// Len returns the number of events.
func (l Log) Len() int { return len(l.Events) }

// Start returns the timestamp of the first event.
func (l Log) Start() (time.Time, bool) {
	if len(l.Events) == 0 {
		return time.Time{}, false
	}

	return l.Events[0].Timestamp, true
}

// End returns the timestamp of the last event.
func (l Log) End() (time.Time, bool) {
	if len(l.Events) == 0 {
		return time.Time{}, false
	}

	return l.Events[len(l.Events)-1].Timestamp, true
}

// Validate checks that every event carries exactly one variant and that timestamps never decrease.
func (l Log) Validate() error {
	for i, event := range l.Events {
		if event.Timestamp.IsZero() {
			return fmt.Errorf("%w: event %d: missing timestamp", ErrInvalidLog, i)
		}

		if event.Payload.Kind() == "" {
			return fmt.Errorf("%w: event %d: expected exactly one of CargoCreate, CargoConfirm, CargoCancel", ErrInvalidLog, i)
		}

		if i > 0 && event.Timestamp.Before(l.Events[i-1].Timestamp) {
			return fmt.Errorf("%w: event %d at %s is earlier than event %d at %s",
				ErrInvalidLog, i, event.Timestamp.Format(time.RFC3339Nano), i-1, l.Events[i-1].Timestamp.Format(time.RFC3339Nano))
		}
	}

	return nil
}

// Load reads and validates the event log at path.
func Load(path string) (Log, error) {
	data, err := os.ReadFile(path) //nolint:gosec // the path is chosen by the operator
	if err != nil {
		return Log{}, errors.Join(ErrReadFile, err)
	}

	return Decode(data)
}

// Decode parses and validates an event log. Unknown fields and variants are schema errors.
func Decode(data []byte) (Log, error) {
	var document wireLog
	if err := strictJSON.Unmarshal(data, &document); err != nil {
		return Log{}, errors.Join(ErrInvalidLog, err)
	}

	if document.Events == nil {
		return Log{}, fmt.Errorf("%w: missing field \"events\"", ErrInvalidLog)
	}

	log := Log{Events: make([]Event, 0, len(*document.Events))}
	for i, raw := range *document.Events {
		event, err := raw.toEvent()
		if err != nil {
			return Log{}, fmt.Errorf("%w: event %d: %w", ErrInvalidLog, i, err)
		}

		log.Events = append(log.Events, event)
	}

	if err := log.Validate(); err != nil {
		return Log{}, err
	}

	return log, nil
}

// Encode renders the log in the EEL file format.
func (l Log) Encode() ([]byte, error) {
	events := make([]wireEvent, 0, len(l.Events))
	for i, event := range l.Events {
		raw, err := fromEvent(event)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %w", ErrInvalidLog, i, err)
		}

		events = append(events, raw)
	}

	return prettyJSON.MarshalIndent(wireLog{Events: &events}, "", "  ")
}

// WriteFile writes the log to path in the EEL file format.
func (l Log) WriteFile(path string) error {
	data, err := l.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec // event logs are not secret
		return errors.Join(ErrWriteFile, err)
	}

	return nil
}
