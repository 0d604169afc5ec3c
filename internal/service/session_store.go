package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/isbul/app-core/internal/domain/auth"
	"github.com/isbul/app-core/internal/ports"
)

// DefaultSessionKey is the logical key the persisted identity lives under.
const DefaultSessionKey = "session"

// SessionStoreOptions groups dependencies for KVSessionStore.
type SessionStoreOptions struct {
	KV     ports.KeyValueStore
	Key    string       // defaults to DefaultSessionKey
	Logger *slog.Logger // defaults to slog.Default()
}

// KVSessionStore persists the session as JSON under a single key of a
// KeyValueStore. Load never fails the caller: a missing key, a corrupt
// value, or an unavailable store all degrade to guest.
type KVSessionStore struct {
	kv     ports.KeyValueStore
	key    string
	logger *slog.Logger
}

var _ ports.SessionStore = (*KVSessionStore)(nil)

// NewKVSessionStore constructs a session store over the given KV store.
func NewKVSessionStore(opts SessionStoreOptions) *KVSessionStore {
	key := opts.Key
	if key == "" {
		key = DefaultSessionKey
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &KVSessionStore{
		kv:     opts.KV,
		key:    key,
		logger: logger,
	}
}

// Load reads the persisted identity. Failures are logged and reported
// as guest (nil session, nil error).
func (s *KVSessionStore) Load(ctx context.Context) (*auth.Session, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.WarnContext(ctx, "load session failed, treating as guest", "error", err)
		}
		return nil, nil
	}

	var sess auth.Session
	if unmarshalErr := json.Unmarshal([]byte(raw), &sess); unmarshalErr != nil {
		s.logger.WarnContext(ctx, "stored session is corrupt, discarding", "error", unmarshalErr)
		if removeErr := s.kv.Remove(ctx, s.key); removeErr != nil {
			s.logger.WarnContext(ctx, "remove corrupt session failed", "error", removeErr)
		}
		return nil, nil
	}

	return &sess, nil
}

// Save persists the session. The caller decides whether a failure
// matters; the in-memory session stays authoritative either way.
func (s *KVSessionStore) Save(ctx context.Context, sess auth.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if setErr := s.kv.Set(ctx, s.key, string(data)); setErr != nil {
		return fmt.Errorf("persist session: %w", setErr)
	}
	return nil
}

// Clear removes the persisted identity. Clearing an absent session is a
// no-op.
func (s *KVSessionStore) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
