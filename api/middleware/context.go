package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/enums"
)

type actorKey struct{}

// Actor is the authenticated caller taken from a verified bearer token.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
}

// WithActor stores the caller on ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller, if Auth ran.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok && actor.UserID != uuid.Nil
}

// UserIDFromContext is uuid.Nil for anonymous requests.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	actor, _ := ActorFromContext(ctx)
	return actor.UserID
}
