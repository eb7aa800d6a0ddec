package eel

import (
	"context"
	"fmt"

	"github.com/Arrow-air/tool-simulation/cargo"
)

// Dispatcher performs the action an event stands for.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, event Event) error

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// GatewayDispatcher sends events to the cargo service:
// CargoCreate queries flights, CargoConfirm confirms, CargoCancel cancels.
type GatewayDispatcher struct {
	gateway cargo.Gateway
}

// NewGatewayDispatcher creates a GatewayDispatcher on gateway.
func NewGatewayDispatcher(gateway cargo.Gateway) (*GatewayDispatcher, error) {
	if gateway == nil {
		return nil, ErrNilGateway
	}

	return &GatewayDispatcher{gateway: gateway}, nil
}

// Dispatch implements Dispatcher. Responses are discarded; only failures are reported.
func (d *GatewayDispatcher) Dispatch(ctx context.Context, event Event) error {
	payload := event.Payload

	switch payload.Kind() {
	case KindCargoCreate:
		_, err := d.gateway.QueryFlights(ctx, *payload.Create)
		return err
	case KindCargoConfirm:
		_, err := d.gateway.Confirm(ctx, *payload.Confirm)
		return err
	case KindCargoCancel:
		return d.gateway.Cancel(ctx, *payload.Cancel)
	default:
		return fmt.Errorf("%w: event without a variant", ErrInvalidLog)
	}
}
