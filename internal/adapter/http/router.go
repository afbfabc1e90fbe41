package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/finledger/internal/adapter/http/handler"
	"github.com/iho/finledger/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler    *handler.TransactionHandler
	AccountHandler        *handler.AccountHandler
	CategoryHandler       *handler.CategoryHandler
	DashboardHandler      *handler.DashboardHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	// IdempotencyStore is optional; without it Idempotency-Key is ignored.
	IdempotencyStore middleware.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          middleware.HTTPRecorder
	MetricsHandler   http.Handler

	Logger         zerolog.Logger
	DefaultOwnerID string
	AllowedOrigin  string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.AllowedOrigin != "" {
		r.Use(middleware.CORS(cfg.AllowedOrigin))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Owner(cfg.DefaultOwnerID))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", cfg.TransactionHandler.List)
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Delete("/{id}", cfg.AccountHandler.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cfg.CategoryHandler.List)
			r.Post("/", cfg.CategoryHandler.Create)
			r.Put("/{id}", cfg.CategoryHandler.Update)
			r.Delete("/{id}", cfg.CategoryHandler.Delete)
		})

		r.Get("/dashboard", cfg.DashboardHandler.Dashboard)
		r.Get("/reports", cfg.DashboardHandler.Report)

		r.Get("/reconciliation", cfg.ReconciliationHandler.Check)
		r.Post("/reconciliation/repair", cfg.ReconciliationHandler.Repair)
	})

	return r
}
