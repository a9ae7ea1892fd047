package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler serves /health. Postgres is load-bearing; Redis only
// carries confirmation mail, so a dead Redis degrades rather than downs
// the service.
type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

// NewHealthHandler creates a health handler (redis optional).
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient}
}

type healthStatus struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	st := healthStatus{Status: "ok", Postgres: "up"}
	code := http.StatusOK

	if err := h.pool.Ping(ctx); err != nil {
		st.Status = "down"
		st.Postgres = "down: " + err.Error()
		code = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			st.Redis = "down: " + err.Error()
			if st.Status == "ok" {
				st.Status = "degraded"
			}
		} else {
			st.Redis = "up"
		}
	}

	writeJSON(w, code, st)
}
