package ports

// Package ports defines interfaces (hexagonal ports) for persistence and
// backend collaborators. Implementations live in internal/adapters;
// orchestration in internal/service.

import (
	"context"
	"errors"

	"github.com/isbul/app-core/internal/domain/auth"
)

// ErrNotFound is returned by KeyValueStore.Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the device-local persistent store. All operations are
// asynchronous from the caller's point of view and take a context.
type KeyValueStore interface {
	// Get returns the stored value, or ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// SessionStore persists the authenticated identity across app restarts.
// Load returns (nil, nil) when no session is stored.
type SessionStore interface {
	Load(ctx context.Context) (*auth.Session, error)
	Save(ctx context.Context, sess auth.Session) error
	Clear(ctx context.Context) error
}

// Credentials are the login-screen inputs.
type Credentials struct {
	Email    string
	Password string
}

// Registration groups the register-screen inputs.
type Registration struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     auth.Role
}

// AuthAPI is the slice of the backend the session lifecycle needs.
type AuthAPI interface {
	// Login authenticates and returns the session on success. Rejected
	// credentials are the one failure the screen layer must see; they
	// surface through this error return.
	Login(ctx context.Context, creds Credentials) (auth.Session, error)

	// Register creates an account. The caller navigates to login on success.
	Register(ctx context.Context, reg Registration) error

	// Logout notifies the backend, best effort. The backend keeps no
	// server-side session for mobile clients, so failures are advisory.
	Logout(ctx context.Context) error
}

// ProfileAPI fetches the current profile of a user.
type ProfileAPI interface {
	Fetch(ctx context.Context, userID int64) (auth.Session, error)
}
