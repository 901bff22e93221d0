package middleware

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for values stored in request contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	actorKey     = contextKey("actor")
)

// WithActor returns a copy of ctx carrying the authenticated actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActorFromContext retrieves the authenticated actor from the Gin context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	if val, exists := c.Get(string(actorKey)); exists {
		if actor, ok := val.(domain.Actor); ok {
			return actor, true
		}
	}
	// check in the request context as well
	actor, ok := c.Request.Context().Value(actorKey).(domain.Actor)
	return actor, ok
}
