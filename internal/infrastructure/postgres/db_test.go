package postgres

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewPoolInvalidURL(t *testing.T) {
	ctx := context.Background()

	if _, err := NewPool(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolPingFailure(t *testing.T) {
	ctx := context.Background()
	cfg := PoolConfig{
		DatabaseURL:    "postgres://invalid:5432/db?connect_timeout=1",
		MaxConns:       1,
		MinConns:       0,
		ConnectTimeout: 300 * time.Millisecond,
	}

	_, err := NewPool(ctx, cfg)
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestPingWithRetryRecovers(t *testing.T) {
	calls := 0
	ping := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}

	if err := pingWithRetry(context.Background(), ping, 5*time.Second); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestPingWithRetryGivesUp(t *testing.T) {
	start := time.Now()
	err := pingWithRetry(context.Background(), func(context.Context) error {
		return errors.New("down")
	}, 200*time.Millisecond)

	if err == nil {
		t.Fatalf("expected error after timeout")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("retry did not respect its timeout")
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected up and down migrations, got %d files", len(entries))
	}
}
