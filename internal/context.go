package internal

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const UserContextKey contextKey = "user"

type Identity interface {
	GetID() uuid.UUID
	GetRestaurantID() uuid.UUID
}

// GetUserIDFromContext extracts the authenticated user id from request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return identity.GetID(), true
}

// GetRestaurantIDFromContext extracts the restaurant the authenticated user administers
func GetRestaurantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return identity.GetRestaurantID(), true
}

func identityFromContext(ctx context.Context) (Identity, bool) {
	userData := ctx.Value(UserContextKey)
	if userData == nil {
		return nil, false
	}

	identity, ok := userData.(Identity)
	return identity, ok
}
