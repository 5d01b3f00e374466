// Package requestctx carries the calling principal through request contexts
// so transports and the engine agree on who is acting.
package requestctx

import "context"

// Caller identifies who issued a request.
type Caller struct {
	// Principal is the acting identity.
	Principal string
	// Relay is the front-end forwarding on behalf of Principal, if any.
	Relay string
	// RequestID correlates logs and events for the request.
	RequestID string
	// Locale selects user-facing message catalogs.
	Locale string
}

type callerContextKey struct{}

// WithCaller stores a caller in context.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext returns the caller stored in context.
func CallerFromContext(ctx context.Context) Caller {
	if ctx == nil {
		return Caller{}
	}
	value, _ := ctx.Value(callerContextKey{}).(Caller)
	return value
}
