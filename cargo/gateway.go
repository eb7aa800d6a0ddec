package cargo

import "context"

// Gateway performs the booking service calls. Implementations must be safe for concurrent use.
type Gateway interface {
	Vertiports(ctx context.Context, query VertiportsQuery) ([]Vertiport, error)
	QueryFlights(ctx context.Context, query FlightQuery) ([]FlightOption, error)
	Confirm(ctx context.Context, confirm FlightConfirm) (string, error)
	Cancel(ctx context.Context, cancel FlightCancel) error
}
