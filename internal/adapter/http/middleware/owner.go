package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/finledger/internal/domain"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// OwnerContextKey is the context key for the resolved owner ID.
	OwnerContextKey ContextKey = "owner_id"

	// OwnerHeader selects the ledger partition a request operates on.
	OwnerHeader = "X-Owner-ID"
)

// Owner resolves the owner of a request from the X-Owner-ID header,
// falling back to defaultOwner. There is no authentication; the header
// only partitions data.
func Owner(defaultOwner string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
			if owner == "" {
				owner = defaultOwner
			}

			if err := domain.ValidateOwnerID(owner); err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid owner id")
				return
			}

			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("owner_id", owner)
			})

			ctx := context.WithValue(r.Context(), OwnerContextKey, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerFromContext returns the owner set by Owner, or "".
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(OwnerContextKey).(string)
	return owner
}

// WithOwner stores owner in ctx. Handlers read it with OwnerFromContext.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, OwnerContextKey, owner)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
