package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func okPinger() Pinger { return PingerFunc(func(ctx context.Context) error { return nil }) }

func TestHealthHandler_Readiness(t *testing.T) {
	down := PingerFunc(func(ctx context.Context) error { return errors.New("down") })

	testCases := []struct {
		name     string
		postgres Pinger
		redis    Pinger
		want     int
		redisVal string
	}{
		{"all up", okPinger(), okPinger(), http.StatusOK, "ok"},
		{"redis disabled", okPinger(), nil, http.StatusOK, "disabled"},
		{"postgres down", down, okPinger(), http.StatusServiceUnavailable, ""},
		{"redis down", okPinger(), down, http.StatusServiceUnavailable, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(tc.postgres, tc.redis)
			rec := serve(http.MethodGet, "/ready", "/ready", nil, h.Readiness)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if tc.want == http.StatusOK {
				var body map[string]string
				decodeBody(t, rec, &body)
				if body["redis"] != tc.redisVal {
					t.Fatalf("unexpected redis status %q", body["redis"])
				}
			}
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := serve(http.MethodGet, "/health", "/health", nil, h.Liveness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
