package auth

import (
	"context"

	"cuentas/internal/core/id"
)

// UserRepository is the persistence contract for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error

	// List returns a page of users plus the unpaged total.
	List(ctx context.Context, filter UserFilter) ([]User, int, error)

	// Exists reports whether the email is already registered.
	Exists(ctx context.Context, email string) (bool, error)
}

// TokenRepository stores refresh tokens. Tokens are kept hashed, the
// plaintext never touches the database.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error

	// GetRefreshToken looks a token up by its hash.
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)

	RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error

	// RevokeAllUserTokens invalidates every live token of one user,
	// used on logout and on password-sensitive changes.
	RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error

	// CleanupExpiredTokens deletes expired rows and reports how many went.
	CleanupExpiredTokens(ctx context.Context) (int, error)
}

// UserFilter narrows List. Search matches name and email.
type UserFilter struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}
