// Package testutil provides testing utilities for the client core.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTestRedisAddr = "localhost:6379"

// SetupTestRedis creates a Redis client for testing with automatic
// address detection (REDIS_TEST_ADDR overrides the default). Tests are
// skipped if Redis is not available.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = defaultTestRedisAddr
	}

	// DB 15 keeps test keys away from any local development data.
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	return client
}
