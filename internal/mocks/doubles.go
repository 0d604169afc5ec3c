package mocks

// Hand-written test doubles for the auth ports. These are lightweight,
// stateful, and suitable for unit tests that want behavior rather than
// call expectations.

import (
	"context"
	"sync"

	"github.com/isbul/app-core/internal/domain/auth"
	"github.com/isbul/app-core/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.AuthAPI      = (*StubAuthAPI)(nil)
	_ ports.ProfileAPI   = (*StubProfileAPI)(nil)
)

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu      sync.Mutex
	session *auth.Session

	// Optional error injections.
	LoadErr  error
	SaveErr  error
	ClearErr error
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) Load(context.Context) (*auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.session == nil {
		return nil, nil
	}
	cp := *m.session
	return &cp, nil
}

func (m *MemorySessionStore) Save(_ context.Context, sess auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.session = &sess
	return nil
}

func (m *MemorySessionStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.session = nil
	return nil
}

// Stored returns the currently persisted session, or nil. Test helper.
func (m *MemorySessionStore) Stored() *auth.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	cp := *m.session
	return &cp
}

// StubAuthAPI is a configurable AuthAPI double. Unset funcs fall back
// to returning the Session/zero values.
type StubAuthAPI struct {
	Session auth.Session

	LoginFunc    func(ctx context.Context, creds ports.Credentials) (auth.Session, error)
	RegisterFunc func(ctx context.Context, reg ports.Registration) error
	LogoutFunc   func(ctx context.Context) error

	LogoutCalls int
}

func (s *StubAuthAPI) Login(ctx context.Context, creds ports.Credentials) (auth.Session, error) {
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, creds)
	}
	return s.Session, nil
}

func (s *StubAuthAPI) Register(ctx context.Context, reg ports.Registration) error {
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, reg)
	}
	return nil
}

func (s *StubAuthAPI) Logout(ctx context.Context) error {
	s.LogoutCalls++
	if s.LogoutFunc != nil {
		return s.LogoutFunc(ctx)
	}
	return nil
}

// StubProfileAPI is a configurable ProfileAPI double.
type StubProfileAPI struct {
	Session auth.Session

	FetchFunc func(ctx context.Context, userID int64) (auth.Session, error)
}

func (s *StubProfileAPI) Fetch(ctx context.Context, userID int64) (auth.Session, error) {
	if s.FetchFunc != nil {
		return s.FetchFunc(ctx, userID)
	}
	return s.Session, nil
}
