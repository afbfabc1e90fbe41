package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler handles health check requests.
type HealthHandler struct {
	postgres Pinger
	redis    Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// cache is disabled.
func NewHealthHandler(postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{
		postgres: postgres,
		redis:    redis,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{"status": "ready", "postgres": "ok", "redis": "disabled"}

	if err := h.postgres.Ping(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("postgres unhealthy")
		writeMessage(w, http.StatusServiceUnavailable, "postgres unhealthy")
		return
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("redis unhealthy")
			writeMessage(w, http.StatusServiceUnavailable, "redis unhealthy")
			return
		}
		status["redis"] = "ok"
	}

	writeJSON(w, http.StatusOK, status)
}
