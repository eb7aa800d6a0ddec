package cargo

import "context"

type customerIDKey struct{}

// WithCustomerID returns a context that attributes gateway calls to the given customer.
func WithCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, customerIDKey{}, customerID)
}

// CustomerIDFrom returns the customer a gateway call is made for, or "" for calls not made by a customer.
func CustomerIDFrom(ctx context.Context) string {
	customerID, _ := ctx.Value(customerIDKey{}).(string)

	return customerID
}
