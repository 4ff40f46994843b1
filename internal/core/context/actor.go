package context

import (
	"context"
)

// Actor identifies who initiated a write, for audit reporting.
// The ledger core does no authentication; the calling layer decides
// what goes here (a username, an API key label, "system").
type Actor struct {
	ID string
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context or nil.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetActorID returns the actor id from context, or "system" when unset.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil && a.ID != "" {
		return a.ID
	}
	return "system"
}
