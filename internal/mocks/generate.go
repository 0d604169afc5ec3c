// Package mocks provides mock implementations for testing the client core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces, plus a few simple hand-written doubles (see doubles.go)
// for tests that want stateful behavior instead of expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	kv := mocks.NewMockKeyValueStore(ctrl)
//	kv.EXPECT().Get(gomock.Any(), "session").Return("", ports.ErrNotFound)
package mocks

// Generate mocks for the port interfaces in internal/ports:
// KeyValueStore (Get, Set, Remove), SessionStore (Load, Save, Clear),
// AuthAPI (Login, Register, Logout), ProfileAPI (Fetch).
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=ports_mock.go github.com/isbul/app-core/internal/ports KeyValueStore,SessionStore,AuthAPI,ProfileAPI
