package ctx

import (
	"context"
)

type contextKey string

const (
	RequestIDContextKey contextKey = "request_id"
)

func WithRequestID(parent context.Context, requestID string) context.Context {
	return context.WithValue(parent, RequestIDContextKey, requestID)
}

func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDContextKey).(string)
	return requestID, ok && requestID != ""
}
