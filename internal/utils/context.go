package utils

import (
	"context"

	"TODO_WEB-APP/internal/models"
)

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying the authenticated identity
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext returns the identity stored by the session middleware
func GetIdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
