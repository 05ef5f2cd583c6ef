package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned when no REDIS_URL was given. Events are then
// delivered to local websocket clients only.
var ErrNotConfigured = errors.New("redis URL not configured")

// Connect establishes a connection to Redis
func Connect(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, ErrNotConfigured
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
