package journal

import (
	"context"
	"errors"
	"sync"
)

// Recorder stores journal entries.
type Recorder interface {
	Append(ctx context.Context, entries ...Entry) error
}

// Recorders fans entries out to several recorders. Every recorder is tried; the errors are joined.
type Recorders []Recorder

// Append implements Recorder.
func (rs Recorders) Append(ctx context.Context, entries ...Entry) error {
	var errs []error
	for _, r := range rs {
		if err := r.Append(ctx, entries...); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// MemoryRecorder keeps entries in memory. It is safe for concurrent use.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryRecorder creates an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Append implements Recorder.
func (m *MemoryRecorder) Append(_ context.Context, entries ...Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entries...)

	return nil
}

// Entries returns a copy of the recorded entries in append order.
func (m *MemoryRecorder) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Entry(nil), m.entries...)
}
