package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

var redisClient *redis.Client

// ConnectRedis establishes a connection to Redis. Redis is optional: it backs
// the atomic order-number sequence, and the order service falls back to a
// count-based sequence when no client is configured.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	redisClient = rdb
	return rdb, nil
}

// GetRedis returns the Redis client, or nil when Redis is not configured
func GetRedis() *redis.Client {
	return redisClient
}

// SetRedis sets the Redis client (primarily for testing)
func SetRedis(client *redis.Client) {
	redisClient = client
}
