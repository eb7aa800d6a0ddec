package cargo

import "time"

// VertiportsQuery asks for the vertiports near a location.
type VertiportsQuery struct {
	Latitude  float32 `json:"latitude"`
	Longitude float32 `json:"longitude"`
}

// Vertiport is a landing site known to the booking service.
type Vertiport struct {
	ID        string  `json:"id"`
	Label     string  `json:"label,omitempty"`
	Latitude  float32 `json:"latitude"`
	Longitude float32 `json:"longitude"`
}

// FlightQuery asks for flight options between two vertiports within optional time windows.
type FlightQuery struct {
	VertiportDepartID  string     `json:"vertiport_depart_id"`
	VertiportArriveID  string     `json:"vertiport_arrive_id"`
	TimestampDepartMin *time.Time `json:"timestamp_depart_min,omitempty"`
	TimestampDepartMax *time.Time `json:"timestamp_depart_max,omitempty"`
	TimestampArriveMin *time.Time `json:"timestamp_arrive_min,omitempty"`
	TimestampArriveMax *time.Time `json:"timestamp_arrive_max,omitempty"`
	CargoWeightKg      float32    `json:"cargo_weight_kg"`
}

// FlightOption is a draft flight plan offered by the service.
// A nil Price means the option is unpriced.
type FlightOption struct {
	PlanID            string     `json:"fp_id"`
	VertiportDepartID string     `json:"vertiport_depart_id,omitempty"`
	VertiportArriveID string     `json:"vertiport_arrive_id,omitempty"`
	TimestampDepart   *time.Time `json:"timestamp_depart,omitempty"`
	TimestampArrive   *time.Time `json:"timestamp_arrive,omitempty"`
	Price             *float64   `json:"base_pricing,omitempty"`
	Currency          string     `json:"currency_type,omitempty"`
}

// FlightConfirm confirms a draft flight plan.
type FlightConfirm struct {
	PlanID string `json:"fp_id"`
}

// FlightCancel cancels a confirmed flight plan.
type FlightCancel struct {
	PlanID string `json:"fp_id"`
}

// Operation names, used for logging, metrics, and journal entries.
const (
	OperationVertiports = "vertiports"
	OperationQuery      = "query"
	OperationConfirm    = "confirm"
	OperationCancel     = "cancel"
)
