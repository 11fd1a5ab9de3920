// Package ctxutil carries request-scoped identity through context.Context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	userIDKey    ctxKey = "user_id"
	requestIDKey ctxKey = "request_id"
	connIDKey    ctxKey = "conn_id"
)

// WithUserID stores the authenticated user ID in the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx extracts the user ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithConnID stores the realtime connection ID in the context.
func WithConnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, connIDKey, id)
}

// ConnIDFromCtx extracts the realtime connection ID. Empty if absent.
func ConnIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(connIDKey).(string)
	return id
}

// Detach returns a background context that keeps the identity values of ctx
// but is not cancelled with it. Used for work that must outlive a request,
// such as publishing realtime events after the response has been written.
func Detach(ctx context.Context) context.Context {
	out := context.Background()
	if id, ok := UserIDFromCtx(ctx); ok {
		out = WithUserID(out, id)
	}
	if id := RequestIDFromCtx(ctx); id != "" {
		out = WithRequestID(out, id)
	}
	if id := ConnIDFromCtx(ctx); id != "" {
		out = WithConnID(out, id)
	}
	return out
}
