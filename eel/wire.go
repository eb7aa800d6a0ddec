package eel

import (
	"errors"
	"time"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/simclock"
)

// The wire types mirror the externally tagged JSON of EEL files.

type wireLog struct {
	Events *[]wireEvent `json:"events"`
}

type wireEvent struct {
	Event     *wireEventType      `json:"event"`
	Timestamp *simclock.Timestamp `json:"timestamp"`
}

type wireEventType struct {
	CustomerEvent *wireCustomerEvent `json:"CustomerEvent"`
}

type wireCustomerEvent struct {
	CargoRequest *wireCargoRequest `json:"CargoRequest"`
}

type wireCargoRequest struct {
	CargoCreate  *wireFlightQuery     `json:"CargoCreate,omitempty"`
	CargoConfirm *cargo.FlightConfirm `json:"CargoConfirm,omitempty"`
	CargoCancel  *cargo.FlightCancel  `json:"CargoCancel,omitempty"`
}

// wireFlightQuery accepts zone-less timestamps inside the query as well.
type wireFlightQuery struct {
	VertiportDepartID  string              `json:"vertiport_depart_id"`
	VertiportArriveID  string              `json:"vertiport_arrive_id"`
	TimestampDepartMin *simclock.Timestamp `json:"timestamp_depart_min,omitempty"`
	TimestampDepartMax *simclock.Timestamp `json:"timestamp_depart_max,omitempty"`
	TimestampArriveMin *simclock.Timestamp `json:"timestamp_arrive_min,omitempty"`
	TimestampArriveMax *simclock.Timestamp `json:"timestamp_arrive_max,omitempty"`
	CargoWeightKg      float32             `json:"cargo_weight_kg"`
}

var (
	errMissingEvent     = errors.New(`missing field "event"`)
	errMissingTimestamp = errors.New(`missing field "timestamp"`)
	errMissingVariant   = errors.New("expected a CustomerEvent with a CargoRequest")
	errAmbiguousVariant = errors.New("expected exactly one of CargoCreate, CargoConfirm, CargoCancel")
)

func (w wireEvent) toEvent() (Event, error) {
	if w.Event == nil {
		return Event{}, errMissingEvent
	}

	if w.Timestamp == nil {
		return Event{}, errMissingTimestamp
	}

	if w.Event.CustomerEvent == nil || w.Event.CustomerEvent.CargoRequest == nil {
		return Event{}, errMissingVariant
	}

	request := w.Event.CustomerEvent.CargoRequest
	event := Event{
		Timestamp: w.Timestamp.Time,
		Payload: CustomerEvent{
			Confirm: request.CargoConfirm,
			Cancel:  request.CargoCancel,
		},
	}

	if request.CargoCreate != nil {
		query := request.CargoCreate.toFlightQuery()
		event.Payload.Create = &query
	}

	if event.Payload.Kind() == "" {
		return Event{}, errAmbiguousVariant
	}

	return event, nil
}

func fromEvent(event Event) (wireEvent, error) {
	if event.Payload.Kind() == "" {
		return wireEvent{}, errAmbiguousVariant
	}

	request := &wireCargoRequest{
		CargoConfirm: event.Payload.Confirm,
		CargoCancel:  event.Payload.Cancel,
	}

	if event.Payload.Create != nil {
		request.CargoCreate = fromFlightQuery(*event.Payload.Create)
	}

	return wireEvent{
		Event:     &wireEventType{CustomerEvent: &wireCustomerEvent{CargoRequest: request}},
		Timestamp: &simclock.Timestamp{Time: event.Timestamp},
	}, nil
}

func (q wireFlightQuery) toFlightQuery() cargo.FlightQuery {
	return cargo.FlightQuery{
		VertiportDepartID:  q.VertiportDepartID,
		VertiportArriveID:  q.VertiportArriveID,
		TimestampDepartMin: timeOf(q.TimestampDepartMin),
		TimestampDepartMax: timeOf(q.TimestampDepartMax),
		TimestampArriveMin: timeOf(q.TimestampArriveMin),
		TimestampArriveMax: timeOf(q.TimestampArriveMax),
		CargoWeightKg:      q.CargoWeightKg,
	}
}

func fromFlightQuery(q cargo.FlightQuery) *wireFlightQuery {
	return &wireFlightQuery{
		VertiportDepartID:  q.VertiportDepartID,
		VertiportArriveID:  q.VertiportArriveID,
		TimestampDepartMin: timestampOf(q.TimestampDepartMin),
		TimestampDepartMax: timestampOf(q.TimestampDepartMax),
		TimestampArriveMin: timestampOf(q.TimestampArriveMin),
		TimestampArriveMax: timestampOf(q.TimestampArriveMax),
		CargoWeightKg:      q.CargoWeightKg,
	}
}

func timeOf(ts *simclock.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}

	t := ts.Time

	return &t
}

func timestampOf(t *time.Time) *simclock.Timestamp {
	if t == nil {
		return nil
	}

	return &simclock.Timestamp{Time: *t}
}
