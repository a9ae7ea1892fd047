package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// confirmationPayload matches the JSON enqueued by EnqueueSendConfirmation.
type confirmationPayload struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	ConfirmURL string `json:"confirm_url"`
}

// Worker runs the asynq handlers for outbound mail. Call Run() to start.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log zerolog.Logger
}

// NewWorker creates an asynq server and registers handlers.
func NewWorker(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, log: log}
	mux.HandleFunc(TypeSendConfirmation, w.handleSendConfirmation)
	return w
}

func (w *Worker) handleSendConfirmation(ctx context.Context, t *asynq.Task) error {
	var p confirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("confirmation task payload invalid")
		return err
	}
	// Dev: log the link; production would send email via SMTP/sendgrid etc.
	w.log.Info().
		Str("email", p.Email).
		Str("username", p.Username).
		Str("confirm_url", p.ConfirmURL).
		Msg("confirmation email (log only; configure SMTP for real email)")
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
