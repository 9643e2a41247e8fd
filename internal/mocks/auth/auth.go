package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"
	"github.com/mtnd/patrimoine-gateway/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Authenticator = (*MockAuthenticator)(nil)
	_ ports.AuditRecorder = (*RecordingAudit)(nil)
	_ ports.RoleMapper    = (*StaticRoleMapper)(nil)
)

// MockAuthenticator simulates the backend for tests with deterministic
// session handles and profiles.
type MockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, creds domainauth.Credentials) (domainauth.SessionHandle, error)
	FetchProfileFunc func(ctx context.Context, handle domainauth.SessionHandle) (domainauth.Profile, error)
	DestroyFunc      func(ctx context.Context, handle domainauth.SessionHandle) error

	// Deterministic values for predictable testing
	DefaultHandle  domainauth.SessionHandle
	DefaultProfile domainauth.Profile

	mu           sync.Mutex
	authCalls    int
	destroyCalls []domainauth.SessionHandle
}

// NewMockAuthenticator creates a MockAuthenticator with sensible defaults.
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{
		DefaultHandle: domainauth.SessionHandle{SessionID: "backend-session-1", UserID: 7},
		DefaultProfile: domainauth.Profile{
			UserID:      7,
			DisplayName: "Mock User",
			Username:    "mock.user",
			Roles:       []string{"user"},
		},
	}
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.SessionHandle, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}

	m.mu.Lock()
	m.authCalls++
	n := m.authCalls
	m.mu.Unlock()

	if creds.Password == "" {
		return domainauth.SessionHandle{}, apperrors.AuthenticationFailed("Access Denied")
	}

	handle := m.DefaultHandle
	if handle.SessionID == "" {
		handle.SessionID = fmt.Sprintf("backend-session-%d", n)
	}
	return handle, nil
}

func (m *MockAuthenticator) FetchProfile(ctx context.Context, handle domainauth.SessionHandle) (domainauth.Profile, error) {
	if m.FetchProfileFunc != nil {
		return m.FetchProfileFunc(ctx, handle)
	}
	profile := m.DefaultProfile
	if profile.UserID == 0 {
		profile.UserID = handle.UserID
	}
	return profile, nil
}

func (m *MockAuthenticator) Destroy(ctx context.Context, handle domainauth.SessionHandle) error {
	if m.DestroyFunc != nil {
		return m.DestroyFunc(ctx, handle)
	}
	m.mu.Lock()
	m.destroyCalls = append(m.destroyCalls, handle)
	m.mu.Unlock()
	return nil
}

// DestroyCalls returns the handles passed to Destroy so far.
func (m *MockAuthenticator) DestroyCalls() []domainauth.SessionHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domainauth.SessionHandle(nil), m.destroyCalls...)
}

// RecordingAudit collects audit events in memory.
type RecordingAudit struct {
	// Err, when set, is returned from Record to exercise best-effort paths.
	Err error

	mu     sync.Mutex
	events []ports.LoginEvent
}

func (r *RecordingAudit) Record(_ context.Context, ev ports.LoginEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.Err
}

// Events returns a copy of the recorded events.
func (r *RecordingAudit) Events() []ports.LoginEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.LoginEvent(nil), r.events...)
}

// StaticRoleMapper returns a fixed role profile for every input. Useful when a
// test wants role resolution out of the way.
type StaticRoleMapper struct {
	Profile domainauth.RoleProfile
}

func (s StaticRoleMapper) Map(_ []string) domainauth.RoleProfile {
	if s.Profile.Role == "" {
		return domainauth.RoleProfile{Role: domainauth.RoleUser}
	}
	return s.Profile
}
