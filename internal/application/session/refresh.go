package session

import (
	"context"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/bearer/internal/domain/errors"
)

type RefreshInput struct {
	RefreshToken string
}

type RefreshResult struct {
	Tokens *ports.TokenPair
}

// Refresh exchanges a refresh token for a new pair under strict
// single-use rotation: the presented token must equal the stored one,
// and the swap to the new token is a per-user compare-and-swap, so of N
// concurrent calls with the same token exactly one rotates.
type Refresh struct {
	users  ports.UserRepository
	tokens ports.TokenService
}

func NewRefresh(users ports.UserRepository, tokens ports.TokenService) *Refresh {
	return &Refresh{users: users, tokens: tokens}
}

func (uc *Refresh) Execute(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	email, err := uc.tokens.DecodeRefresh(input.RefreshToken)
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
	pair, err := uc.tokens.IssueSession(email)
	if err != nil {
		return nil, err
	}
	rotated, err := uc.users.RotateRefreshToken(ctx, email, input.RefreshToken, pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// A well-formed, unexpired token that is not the stored one means
		// it was rotated away before: either a replay or a very stale
		// client. Both revoke the session.
		if err := uc.users.SetRefreshToken(ctx, email, nil); err != nil {
			return nil, err
		}
		return nil, domerrors.ErrTokenReuse
	}
	return &RefreshResult{Tokens: pair}, nil
}
