package testdoubles

import (
	"context"
	"fmt"
	"sync"

	"github.com/Arrow-air/tool-simulation/cargo"
)

// GatewayCall is one recorded call on a FakeGateway.
type GatewayCall struct {
	Operation string
	Request   any
}

// FakeGateway is a cargo.Gateway for tests.
// Every call is recorded; the *Func fields override the default answers.
//
// Defaults: two vertiports, one priced option per query, confirm echoes a
// "confirmed-<fp_id>" plan id, cancel succeeds.
type FakeGateway struct {
	VertiportsFunc   func(ctx context.Context, query cargo.VertiportsQuery) ([]cargo.Vertiport, error)
	QueryFlightsFunc func(ctx context.Context, query cargo.FlightQuery) ([]cargo.FlightOption, error)
	ConfirmFunc      func(ctx context.Context, confirm cargo.FlightConfirm) (string, error)
	CancelFunc       func(ctx context.Context, cancel cargo.FlightCancel) error

	mu    sync.Mutex
	calls []GatewayCall
}

// NewFakeGateway creates a FakeGateway with the default answers.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

// Vertiports implements cargo.Gateway.
func (g *FakeGateway) Vertiports(ctx context.Context, query cargo.VertiportsQuery) ([]cargo.Vertiport, error) {
	g.record(cargo.OperationVertiports, query)

	if g.VertiportsFunc != nil {
		return g.VertiportsFunc(ctx, query)
	}

	return []cargo.Vertiport{
		{ID: "vertiport-a", Label: "A", Latitude: 52.52, Longitude: 13.40},
		{ID: "vertiport-b", Label: "B", Latitude: 52.37, Longitude: 4.90},
	}, nil
}

// QueryFlights implements cargo.Gateway.
func (g *FakeGateway) QueryFlights(ctx context.Context, query cargo.FlightQuery) ([]cargo.FlightOption, error) {
	g.record(cargo.OperationQuery, query)

	if g.QueryFlightsFunc != nil {
		return g.QueryFlightsFunc(ctx, query)
	}

	price := 42.0

	return []cargo.FlightOption{{
		PlanID:            "draft-1",
		VertiportDepartID: query.VertiportDepartID,
		VertiportArriveID: query.VertiportArriveID,
		Price:             &price,
	}}, nil
}

// Confirm implements cargo.Gateway.
func (g *FakeGateway) Confirm(ctx context.Context, confirm cargo.FlightConfirm) (string, error) {
	g.record(cargo.OperationConfirm, confirm)

	if g.ConfirmFunc != nil {
		return g.ConfirmFunc(ctx, confirm)
	}

	return fmt.Sprintf("confirmed-%s", confirm.PlanID), nil
}

// Cancel implements cargo.Gateway.
func (g *FakeGateway) Cancel(ctx context.Context, cancel cargo.FlightCancel) error {
	g.record(cargo.OperationCancel, cancel)

	if g.CancelFunc != nil {
		return g.CancelFunc(ctx, cancel)
	}

	return nil
}

// Calls returns a copy of all recorded calls in call order.
func (g *FakeGateway) Calls() []GatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]GatewayCall(nil), g.calls...)
}

// CountCalls returns how many calls of the given operation were recorded.
func (g *FakeGateway) CountCalls(operation string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	count := 0
	for _, call := range g.calls {
		if call.Operation == operation {
			count++
		}
	}

	return count
}

// TotalCalls returns the number of recorded calls.
func (g *FakeGateway) TotalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.calls)
}

func (g *FakeGateway) record(operation string, request any) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, GatewayCall{Operation: operation, Request: request})
}

var _ cargo.Gateway = (*FakeGateway)(nil)
