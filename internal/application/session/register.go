package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
	"github.com/amirhosseinghanipour/bearer/internal/domain"
	domerrors "github.com/amirhosseinghanipour/bearer/internal/domain/errors"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type RegisterResult struct {
	User *domain.User
}

// Register creates an unconfirmed user and kicks off the confirmation
// mail. The user cannot log in until the mail link is followed.
type Register struct {
	users         ports.UserRepository
	hasher        ports.PasswordHasher
	confirmations *RequestConfirmation
}

func NewRegister(users ports.UserRepository, hasher ports.PasswordHasher, confirmations *RequestConfirmation) *Register {
	return &Register{users: users, hasher: hasher, confirmations: confirmations}
}

func (uc *Register) Execute(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	existing, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrUserExists
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	_, _ = uc.confirmations.Execute(ctx, RequestConfirmationInput{Email: user.Email})
	return &RegisterResult{User: user}, nil
}
