package apiclient

import "context"

// RequestIDHeader carries the console's request id through to the backend.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID makes outgoing requests made with ctx carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
