package ports

import (
	"context"

	"github.com/amirhosseinghanipour/bearer/internal/domain"
)

// UserRepository defines persistence for users. Email lookups are
// case-insensitive.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetRefreshToken overwrites the stored refresh token unconditionally.
	// Pass nil to clear it (logout, revocation).
	SetRefreshToken(ctx context.Context, email string, token *string) error

	// RotateRefreshToken replaces the stored refresh token with next only
	// if the stored value still equals presented. It reports whether the
	// swap happened. The compare-and-swap must be atomic per user: of N
	// concurrent rotations presenting the same token, exactly one may win.
	RotateRefreshToken(ctx context.Context, email, presented, next string) (bool, error)

	SetConfirmed(ctx context.Context, email string) error
	UpdateAvatarURL(ctx context.Context, email, url string) (*domain.User, error)
}
