package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	infraredis "github.com/iho/finledger/internal/infrastructure/redis"
)

// newTestRedisClient connects through the same URL path the server uses,
// against an in-process miniredis.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := infraredis.NewClient(context.Background(), "redis://"+mr.Addr()+"/0", time.Second)
	if err != nil {
		t.Fatalf("connect to miniredis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}
