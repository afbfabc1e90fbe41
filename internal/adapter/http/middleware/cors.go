package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the browser dashboard served from origin to call the API.
func CORS(origin string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", IdempotencyKeyHeader, OwnerHeader},
		ExposedHeaders: []string{"X-Idempotency-Replay", "X-Request-Id"},
		MaxAge:         300,
	})
}
