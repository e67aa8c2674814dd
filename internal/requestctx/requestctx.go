// Package requestctx carries per-request values from the HTTP edge into the domain services.
package requestctx

import (
	"context"

	"pts/internal/domain/auth"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	actorKey     ctxKey = "actor"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithActor(ctx context.Context, actor auth.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func GetActor(ctx context.Context) (auth.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(auth.Actor)
	return actor, ok
}

// ActorID returns the acting user id, or nil for system work such as scheduled jobs.
func ActorID(ctx context.Context) *int64 {
	actor, ok := GetActor(ctx)
	if !ok || actor.UserID == 0 {
		return nil
	}
	id := actor.UserID
	return &id
}
