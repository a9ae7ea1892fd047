package ports

import "context"

// TaskEnqueuer enqueues async tasks (confirmation email delivery). Enqueue
// errors are the enqueuer's problem to log; use cases fire and forget.
type TaskEnqueuer interface {
	EnqueueSendConfirmation(ctx context.Context, email, username, confirmURL string) error
}
