package context

import (
	"context"
)

// UserContext is the authenticated identity attached to a request by the
// auth middleware. The audit recorder and loggers read it back out.
type UserContext struct {
	UserID    string
	Email     string
	IsAdmin   bool
	SessionID string
}

type userContextKey struct{}

// WithUser attaches the user to ctx.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns the user carried by ctx, or nil for anonymous requests.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns the user id, or "" when ctx has no user.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
