package memstore

// Package memstore provides an in-memory KeyValueStore for development
// and tests, where no Redis instance is available. It mirrors the dev
// fallbacks used elsewhere in the codebase: same contract, no I/O.

import (
	"context"
	"sync"

	"github.com/isbul/app-core/internal/ports"
)

// Store is a goroutine-safe in-memory key-value store.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ ports.KeyValueStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.values[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return val, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Len reports the number of stored keys. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
