package queue

import (
	"context"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
)

// NoopEnqueuer drops tasks. Used when Redis is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer { return &NoopEnqueuer{} }

func (NoopEnqueuer) EnqueueSendConfirmation(ctx context.Context, email, username, confirmURL string) error {
	return nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
