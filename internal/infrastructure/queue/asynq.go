package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
)

const TypeSendConfirmation = "email:confirmation"

// TaskEnqueuer implements ports.TaskEnqueuer over asynq/Redis. Delivery
// retries live on the queue side; callers fire and forget.
type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueSendConfirmation(ctx context.Context, email, username, confirmURL string) error {
	payload, _ := json.Marshal(map[string]string{
		"email":       email,
		"username":    username,
		"confirm_url": confirmURL,
	})
	task := asynq.NewTask(TypeSendConfirmation, payload)
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("email", email).Msg("enqueue confirmation email failed")
		return err
	}
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
