package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Open parses a redis:// URL and returns a client. An empty URL yields a nil client;
// every Redis-backed feature treats nil as disabled.
func Open(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// Ping reports whether the client can reach the server.
func Ping(ctx context.Context, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}
	return rdb.Ping(ctx).Err()
}
