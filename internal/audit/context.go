package audit

import "context"

type requestIDKey struct{}

// WithRequestID stores the request id so downstream dispatch sites can stamp
// it onto events.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
