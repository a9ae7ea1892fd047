package session

import (
	"context"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
)

type LogoutInput struct {
	Email string
}

// Logout clears the stored refresh token. The outstanding access token
// stays valid until it expires; only the session's renewability ends.
type Logout struct {
	users ports.UserRepository
}

func NewLogout(users ports.UserRepository) *Logout {
	return &Logout{users: users}
}

func (uc *Logout) Execute(ctx context.Context, input LogoutInput) error {
	return uc.users.SetRefreshToken(ctx, input.Email, nil)
}
