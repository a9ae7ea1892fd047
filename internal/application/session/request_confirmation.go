package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
)

type RequestConfirmationInput struct {
	Email string
}

type RequestConfirmationResult struct {
	Sent bool
}

// RequestConfirmation issues a confirmation token and enqueues the mail
// for it. Unknown emails and already-confirmed users are a quiet no-op,
// so the endpoint cannot be used to probe for accounts. Enqueue errors
// never surface: delivery retries belong to the queue, not here.
type RequestConfirmation struct {
	users    ports.UserRepository
	tokens   ports.TokenService
	enqueuer ports.TaskEnqueuer
	baseURL  string
}

func NewRequestConfirmation(users ports.UserRepository, tokens ports.TokenService, enqueuer ports.TaskEnqueuer, baseURL string) *RequestConfirmation {
	return &RequestConfirmation{
		users:    users,
		tokens:   tokens,
		enqueuer: enqueuer,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (uc *RequestConfirmation) Execute(ctx context.Context, input RequestConfirmationInput) (*RequestConfirmationResult, error) {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil || user == nil {
		return &RequestConfirmationResult{}, nil
	}
	if user.Confirmed {
		return &RequestConfirmationResult{}, nil
	}
	token, err := uc.tokens.IssueConfirmation(user.Email)
	if err != nil {
		return nil, err
	}
	confirmURL := fmt.Sprintf("%s/auth/confirmed_email/%s", uc.baseURL, token)
	_ = uc.enqueuer.EnqueueSendConfirmation(ctx, user.Email, user.Username, confirmURL)
	return &RequestConfirmationResult{Sent: true}, nil
}
