package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/finledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader  = "Idempotency-Key"
	defaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyStore is a usecase.IdempotencyStore that can also drop a key.
type IdempotencyStore interface {
	usecase.IdempotencyStore
	Release(ctx context.Context, key string) error
}

// storedResponse is what gets replayed for a repeated key.
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyMiddleware handles request idempotency using Redis.
type IdempotencyMiddleware struct {
	store IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking. Keys are scoped
// by owner, method and path, so one key cannot replay another owner's
// response.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(IdempotencyKeyHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := OwnerFromContext(ctx) + ":" + r.Method + ":" + r.URL.Path + ":" + header
		log := zerolog.Ctx(ctx)

		exists, cached, err := m.store.CheckAndSet(ctx, key, nil, m.ttl)
		if err != nil {
			log.Error().Err(err).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			if cached == nil || string(cached) == usecase.IdempotencyProcessing {
				writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
				return
			}

			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err != nil {
				log.Error().Err(err).Msg("corrupt idempotency record")
				writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(stored.Status)
			_, _ = w.Write(stored.Body)
			return
		}

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Only successes are replayed; anything else frees the key for a retry.
		ctx = context.WithoutCancel(ctx)
		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(ctx, key); err != nil {
				log.Warn().Err(err).Msg("failed to release idempotency key")
			}
			return
		}

		payload, err := json.Marshal(storedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
		if err == nil {
			err = m.store.Update(ctx, key, payload, m.ttl)
		}
		if err != nil {
			log.Warn().Err(err).Msg("failed to store idempotent response")
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
