// Package cargo is the transport gateway to the cargo booking service.
//
// Gateway is the narrow interface the simulation depends on. Client implements it over the
// service's REST API:
//
//	POST   /cargo/vertiports  -> JSON array of Vertiport
//	POST   /cargo/query       -> JSON array of FlightOption
//	PUT    /cargo/confirm     -> plain-text plan id
//	DELETE /cargo/cancel
//
// Every call carries a bounded timeout. Failures are classified with the sentinel errors
// ErrTransport, ErrProtocol, ErrDecode and ErrEmptyResult so callers can treat them uniformly.
package cargo
