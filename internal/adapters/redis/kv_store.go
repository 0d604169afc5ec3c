package redis

// Package redis provides the Redis-backed key-value adapter used for
// device-local persistence.

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/isbul/app-core/internal/ports"
)

// KVStore is a Redis-based key-value store for production use. Values
// carry no TTL: the store models device-local persistence, so entries
// live until explicitly removed.
type KVStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.KeyValueStore = (*KVStore)(nil)

// NewKVStore creates a new Redis-based key-value store.
func NewKVStore(client redis.UniversalClient) *KVStore {
	return &KVStore{
		client: client,
		prefix: "appstate:",
	}
}

// NewKVStoreWithPrefix creates a Redis key-value store with a custom key prefix.
func NewKVStoreWithPrefix(client redis.UniversalClient, prefix string) *KVStore {
	return &KVStore{
		client: client,
		prefix: prefix,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrNotFound
	}

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}

	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to remove
	}

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
