package session

import (
	"context"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/bearer/internal/domain/errors"
)

type ConfirmEmailInput struct {
	Token string
}

type ConfirmEmailResult struct {
	AlreadyConfirmed bool
}

// ConfirmEmail flips the user's confirmed flag based on a confirmation
// token. Confirming an already-confirmed user is not an error.
type ConfirmEmail struct {
	users  ports.UserRepository
	tokens ports.TokenService
}

func NewConfirmEmail(users ports.UserRepository, tokens ports.TokenService) *ConfirmEmail {
	return &ConfirmEmail{users: users, tokens: tokens}
}

func (uc *ConfirmEmail) Execute(ctx context.Context, input ConfirmEmailInput) (*ConfirmEmailResult, error) {
	email, err := uc.tokens.DecodeConfirmation(input.Token)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if user.Confirmed {
		return &ConfirmEmailResult{AlreadyConfirmed: true}, nil
	}
	if err := uc.users.SetConfirmed(ctx, email); err != nil {
		return nil, err
	}
	return &ConfirmEmailResult{}, nil
}
