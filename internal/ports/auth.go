package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
)

// Authenticator exchanges credentials for a backend session and resolves the
// authenticated user's profile. The two calls are strictly sequential: a
// profile fetch is only valid against a just-established handle.
type Authenticator interface {
	// Authenticate performs the backend session exchange. Failures surface as
	// errors.AuthenticationFailed with the backend-supplied message when one
	// exists.
	Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.SessionHandle, error)

	// FetchProfile fetches the current user's profile using cookie-based
	// session propagation from the handle. Failures surface as
	// errors.ProfileFetchFailed and the caller must roll back the login.
	FetchProfile(ctx context.Context, handle domainauth.SessionHandle) (domainauth.Profile, error)

	// Destroy invalidates the backend session. Used on logout and when rolling
	// back a partially-established login.
	Destroy(ctx context.Context, handle domainauth.SessionHandle) error
}

// SessionStore persists and retrieves user records keyed by gateway session id.
// A missing or malformed record is reported as ErrNotFound by implementations,
// never as a decode error.
type SessionStore interface {
	Save(ctx context.Context, rec domainauth.UserRecord) error
	Get(ctx context.Context, id string) (domainauth.UserRecord, error)
	Delete(ctx context.Context, id string) error
}

// StoreEvent describes a change applied to a session store entry.
type StoreEvent struct {
	SessionID string
	Kind      StoreEventKind
	At        time.Time
}

// StoreEventKind enumerates session store change kinds.
type StoreEventKind string

const (
	StoreEventSaved   StoreEventKind = "saved"
	StoreEventCleared StoreEventKind = "cleared"
)

// SessionWatcher is implemented by stores that can notify observers of
// logins/logouts applied elsewhere (another tab, another gateway instance).
// Delivery is eventually consistent; last write wins.
type SessionWatcher interface {
	Watch(ctx context.Context) (<-chan StoreEvent, error)
}

// RoleMapper collapses the backend's raw role strings into the single primary
// role and capability flags persisted on the user record.
type RoleMapper interface {
	Map(roles []string) domainauth.RoleProfile
}

// LoginEvent is an auth lifecycle event recorded for auditing.
type LoginEvent struct {
	UserID     int
	Username   string
	Role       domainauth.Role
	Kind       LoginEventKind
	RemoteAddr string
	Detail     string
}

// LoginEventKind enumerates auditable auth events.
type LoginEventKind string

const (
	LoginEventSucceeded LoginEventKind = "login"
	LoginEventFailed    LoginEventKind = "login_failed"
	LoginEventLogout    LoginEventKind = "logout"
	LoginEventExpired   LoginEventKind = "session_expired"
)

// AuditRecorder persists auth lifecycle events.
type AuditRecorder interface {
	Record(ctx context.Context, ev LoginEvent) error
}
