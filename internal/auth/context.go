package auth

import (
	"context"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

type contextKey string

const userKey = contextKey("current_user")

// WithUser stores the resolved user in the request context.
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the signed-in user, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
