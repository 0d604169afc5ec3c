package config

import (
	"fmt"
	"strings"
)

// StorageBackend selects the device-local persistence implementation.
type StorageBackend string

const (
	// StorageBackendRedis persists through Redis.
	StorageBackendRedis StorageBackend = "redis"
	// StorageBackendMemory keeps state in process memory (development
	// and tests only; nothing survives a restart).
	StorageBackendMemory StorageBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "redis", "memory":
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: redis, memory)", v)
	}
}

// StorageConfig contains device-local persistence configuration.
type StorageConfig struct {
	// Backend selects the key-value store implementation.
	Backend StorageBackend `env:"BACKEND" envDefault:"redis"`

	// SessionKey is the logical key the persisted identity lives under.
	SessionKey string `env:"SESSION_KEY" envDefault:"session"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StorageBackendRedis
	}
	if s.SessionKey == "" {
		s.SessionKey = "session"
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	Addr      string `env:"ADDR"       envDefault:"localhost:6379"`
	Password  string `env:"PASSWORD"   envDefault:""`
	DB        int    `env:"DB"         envDefault:"0"`
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"appstate:"`
}
