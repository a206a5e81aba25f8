package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options tunes the client created by NewClientWithOptions. Zero values keep
// the go-redis defaults.
type Options struct {
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewClient creates a new Redis client.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	return NewClientWithOptions(ctx, redisURL, Options{})
}

// NewClientWithOptions parses redisURL, applies opts and verifies the
// connection with a ping.
func NewClientWithOptions(ctx context.Context, redisURL string, opts Options) (*redis.Client, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if opts.PoolSize > 0 {
		parsed.PoolSize = opts.PoolSize
	}
	if opts.DialTimeout > 0 {
		parsed.DialTimeout = opts.DialTimeout
	}
	if opts.ReadTimeout > 0 {
		parsed.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		parsed.WriteTimeout = opts.WriteTimeout
	}

	client := redis.NewClient(parsed)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
