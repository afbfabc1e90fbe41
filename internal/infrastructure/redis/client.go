package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a new Redis client. The first ping is retried with
// exponential backoff for up to connectTimeout.
func NewClient(ctx context.Context, redisURL string, connectTimeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = connectTimeout

	// Verify connection
	err = backoff.Retry(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(b, ctx))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
