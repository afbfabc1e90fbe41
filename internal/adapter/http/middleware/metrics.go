package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HTTPRecorder receives one observation per served request.
type HTTPRecorder interface {
	RecordHTTP(method, path string, code int, duration time.Duration)
}

// Metrics middleware records HTTP metrics labelled by the matched chi
// route pattern, which keeps IDs out of the label values.
func Metrics(rec HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			rec.RecordHTTP(r.Method, routePattern(r), wrapped.statusCode, time.Since(start))
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unmatched"
	}

	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}

	return "unmatched"
}
