package journal

import (
	"errors"
	"time"
)

// EntryType names the kind of gateway call an Entry records.
type EntryType string

// Entry types, one per gateway operation.
const (
	TypeCargoVertiports EntryType = "CargoVertiports"
	TypeCargoCreate     EntryType = "CargoCreate"
	TypeCargoConfirm    EntryType = "CargoConfirm"
	TypeCargoCancel     EntryType = "CargoCancel"
)

// Outcomes recorded in Metadata.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

var (
	// ErrEmptyRunID is returned when a recording gateway is created without a run id.
	ErrEmptyRunID = errors.New("run id must not be empty")

	// ErrNilGateway is returned when a recording gateway is created without a gateway to wrap.
	ErrNilGateway = errors.New("gateway must not be nil")

	// ErrNilRecorder is returned when a recording gateway is created without a recorder.
	ErrNilRecorder = errors.New("recorder must not be nil")

	// ErrNilClock is returned when a recording gateway is created without a clock.
	ErrNilClock = errors.New("clock must not be nil")
)

// Entry is one recorded gateway call. Payload holds the JSON request body.
type Entry struct {
	Type       EntryType
	OccurredAt time.Time
	Payload    []byte
	Metadata   Metadata
}

// Metadata attributes an Entry to its run and caller and records how the call ended.
type Metadata struct {
	RunID      string `json:"run_id"`
	CustomerID string `json:"customer_id,omitempty"`
	Outcome    string `json:"outcome"`
	Cause      string `json:"cause,omitempty"`
	PlanID     string `json:"plan_id,omitempty"`
}
