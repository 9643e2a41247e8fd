package httpx

import (
	"context"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"
	"github.com/mtnd/patrimoine-gateway/internal/service"
)

// stubAuthService is a test double for the auth service surface the HTTP
// layer consumes.
type stubAuthService struct {
	loginFunc      func(ctx context.Context, in service.LoginInput) (*domainauth.UserRecord, error)
	getSessionFunc func(ctx context.Context, sessionID string) (*domainauth.UserRecord, error)
	logoutFunc     func(ctx context.Context, sessionID string) error
	invalidateFunc func(ctx context.Context, sessionID, reason string) error

	invalidated []string
	logouts     []string
}

func (s *stubAuthService) Login(ctx context.Context, in service.LoginInput) (*domainauth.UserRecord, error) {
	if s.loginFunc != nil {
		return s.loginFunc(ctx, in)
	}
	return &domainauth.UserRecord{
		ID:       "gw-session-1",
		UserID:   42,
		Name:     "Jean Dupont",
		Username: in.Login,
		Role:     domainauth.RoleAgent,
	}, nil
}

func (s *stubAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.UserRecord, error) {
	if s.getSessionFunc != nil {
		return s.getSessionFunc(ctx, sessionID)
	}
	return nil, apperrors.NotFound("session not found")
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	s.logouts = append(s.logouts, sessionID)
	if s.logoutFunc != nil {
		return s.logoutFunc(ctx, sessionID)
	}
	return nil
}

func (s *stubAuthService) Invalidate(ctx context.Context, sessionID, reason string) error {
	s.invalidated = append(s.invalidated, sessionID)
	if s.invalidateFunc != nil {
		return s.invalidateFunc(ctx, sessionID, reason)
	}
	return nil
}

// sessionFor returns a getSessionFunc that recognizes a single session id.
func sessionFor(id string, rec *domainauth.UserRecord) func(context.Context, string) (*domainauth.UserRecord, error) {
	return func(_ context.Context, sessionID string) (*domainauth.UserRecord, error) {
		if sessionID == id {
			return rec, nil
		}
		return nil, apperrors.NotFound("session not found")
	}
}
