package services

import "context"

type contextKey string

const (
	listIDKey    contextKey = "list_id"
	requestIDKey contextKey = "request_id"
)

// WithListID annotates context with the list identifier.
func WithListID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, listIDKey, id)
}

// ListIDFromContext extracts the list identifier if present.
func ListIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(listIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
