package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/finledger/internal/usecase"
)

type fakeIdempotencyStore struct {
	checkAndSetFn func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFn      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	released      []string
	keys          []string
}

func (f *fakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	f.keys = append(f.keys, key)
	if f.checkAndSetFn != nil {
		return f.checkAndSetFn(ctx, key, response, ttl)
	}
	return false, nil, nil
}

func (f *fakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, key, response, ttl)
	}
	return nil
}

func (f *fakeIdempotencyStore) Release(ctx context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

func postWithKey(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	return req.WithContext(WithOwner(req.Context(), "owner-1"))
}

func TestIdempotencyMiddleware_StoreErrorFailsRequest(t *testing.T) {
	var called bool
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return false, nil, context.DeadlineExceeded
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, postWithKey("key-err"))

	if called {
		t.Fatalf("handler should not be called when store errors")
	}

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_ReleasesFailedResponses(t *testing.T) {
	var updated bool
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updated = true
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})).ServeHTTP(rr, postWithKey("key-fail"))

	if updated {
		t.Fatalf("expected error responses not to be cached")
	}
	if len(store.released) != 1 {
		t.Fatalf("expected key to be released, got %v", store.released)
	}
}

func TestIdempotencyMiddleware_SkipsNonMutatingRequests(t *testing.T) {
	store := &fakeIdempotencyStore{}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set(IdempotencyKeyHeader, "ignored")
	rr := httptest.NewRecorder()

	called := false
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if !called {
		t.Fatalf("expected next handler to be called")
	}
	if len(store.keys) != 0 {
		t.Fatalf("store should not be consulted for GET")
	}
}

func TestIdempotencyMiddleware_ReplaysStatusAndBody(t *testing.T) {
	stored, _ := json.Marshal(storedResponse{Status: http.StatusCreated, Body: []byte(`{"id":"txn-1"}`)})
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, stored, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called when cached response exists")
	})).ServeHTTP(rr, postWithKey("key-123"))

	if rr.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected X-Idempotency-Replay header to be set")
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != `{"id":"txn-1"}` {
		t.Fatalf("unexpected cached body: %s", got)
	}
}

func TestIdempotencyMiddleware_InFlightKeyConflicts(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, []byte(usecase.IdempotencyProcessing), nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run twice for one key")
	})).ServeHTTP(rr, postWithKey("key-busy"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_StoresSuccessfulResponse(t *testing.T) {
	var updated []byte
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updated = append([]byte(nil), response...)
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})).ServeHTTP(rr, postWithKey("key-456"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	var stored storedResponse
	if err := json.Unmarshal(updated, &stored); err != nil {
		t.Fatalf("stored record is not json: %v", err)
	}
	if stored.Status != http.StatusCreated || string(stored.Body) != `{"ok":true}` {
		t.Fatalf("unexpected stored record %+v", stored)
	}
}

func TestIdempotencyMiddleware_ScopesKeyByOwnerAndRoute(t *testing.T) {
	store := &fakeIdempotencyStore{}
	mw := NewIdempotencyMiddleware(store, time.Minute)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	mw.Wrap(next).ServeHTTP(httptest.NewRecorder(), postWithKey("same"))

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", nil)
	req.Header.Set(IdempotencyKeyHeader, "same")
	req = req.WithContext(WithOwner(req.Context(), "owner-2"))
	mw.Wrap(next).ServeHTTP(httptest.NewRecorder(), req)

	if len(store.keys) != 2 || store.keys[0] == store.keys[1] {
		t.Fatalf("expected distinct scoped keys, got %v", store.keys)
	}
}
