package middleware

import (
	"context"

	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/session"
)

type contextKey string

const adminContextKey contextKey = "admin"

// WithAdmin injects the authenticated admin into the context.
func WithAdmin(ctx context.Context, admin *session.Admin) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

// AdminFromContext returns the admin from the context, or nil.
func AdminFromContext(ctx context.Context) *session.Admin {
	v := ctx.Value(adminContextKey)
	if v == nil {
		return nil
	}
	a, _ := v.(*session.Admin)
	return a
}
