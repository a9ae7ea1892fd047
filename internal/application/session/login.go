package session

import (
	"context"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
	"github.com/amirhosseinghanipour/bearer/internal/domain"
	domerrors "github.com/amirhosseinghanipour/bearer/internal/domain/errors"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Tokens *ports.TokenPair
	User   *domain.User
}

// Login authenticates a user by password and opens a session. The new
// refresh token overwrites whatever was stored, so only one session
// survives a fresh login.
type Login struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService) *Login {
	return &Login{users: users, hasher: hasher, tokens: tokens}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if !user.Confirmed {
		return nil, domerrors.ErrEmailNotConfirmed
	}
	if !uc.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	pair, err := uc.tokens.IssueSession(user.Email)
	if err != nil {
		return nil, err
	}
	if err := uc.users.SetRefreshToken(ctx, user.Email, &pair.RefreshToken); err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: pair, User: user}, nil
}
