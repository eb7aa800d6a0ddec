package eel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/journal"
)

// ErrRecorderClosed is returned when entries are appended to a closed FileRecorder.
var ErrRecorderClosed = errors.New("event log recorder is closed")

// FromEntries converts journaled create, confirm and cancel calls into an event log sorted by
// simulated time. Calls are kept whatever the service answered. Vertiport lookups are skipped.
func FromEntries(entries []journal.Entry) (Log, error) {
	log := Log{Events: make([]Event, 0, len(entries))}

	for i, entry := range entries {
		var payload CustomerEvent

		switch entry.Type {
		case journal.TypeCargoCreate:
			payload.Create = &cargo.FlightQuery{}
			if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(entry.Payload, payload.Create); err != nil {
				return Log{}, fmt.Errorf("%w: journal entry %d: %w", ErrInvalidLog, i, err)
			}
		case journal.TypeCargoConfirm:
			payload.Confirm = &cargo.FlightConfirm{}
			if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(entry.Payload, payload.Confirm); err != nil {
				return Log{}, fmt.Errorf("%w: journal entry %d: %w", ErrInvalidLog, i, err)
			}
		case journal.TypeCargoCancel:
			payload.Cancel = &cargo.FlightCancel{}
			if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(entry.Payload, payload.Cancel); err != nil {
				return Log{}, fmt.Errorf("%w: journal entry %d: %w", ErrInvalidLog, i, err)
			}
		default:
			continue
		}

		log.Events = append(log.Events, Event{Timestamp: entry.OccurredAt.UTC(), Payload: payload})
	}

	slices.SortStableFunc(log.Events, func(a, b Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return log, nil
}

// FileRecorder is a journal.Recorder that collects entries and writes them as an event log on Close.
// It is safe for concurrent use.
type FileRecorder struct {
	path    string
	mu      sync.Mutex
	entries []journal.Entry
	closed  bool
}

// NewFileRecorder creates a FileRecorder that writes to path.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

// Append implements journal.Recorder.
func (r *FileRecorder) Append(_ context.Context, entries ...journal.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}

	r.entries = append(r.entries, entries...)

	return nil
}

// Close converts the collected entries and writes the event log file. Later calls are no-ops.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	log, err := FromEntries(r.entries)
	if err != nil {
		return err
	}

	return log.WriteFile(r.path)
}

var _ journal.Recorder = (*FileRecorder)(nil)
