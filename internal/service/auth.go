package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"
	"github.com/mtnd/patrimoine-gateway/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Authenticator ports.Authenticator
	Sessions      ports.SessionStore
	Roles         ports.RoleMapper
	Audit         ports.AuditRecorder // optional
	Logger        *slog.Logger        // optional
}

// AuthService orchestrates the login flow: authenticate against the backend,
// resolve the profile, normalize roles, and persist the composed user record.
// The three steps are strictly sequential and nothing is retried; a failed
// login surfaces an error and the user may resubmit.
type AuthService struct {
	authenticator ports.Authenticator
	sessions      ports.SessionStore
	roles         ports.RoleMapper
	audit         ports.AuditRecorder
	logger        *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: opts.Authenticator,
		sessions:      opts.Sessions,
		roles:         opts.Roles,
		audit:         opts.Audit,
		logger:        logger,
	}
}

// LoginInput groups parameters for a login attempt.
type LoginInput struct {
	Login      string
	Password   string
	RemoteAddr string
}

// Login runs the full session and role resolution flow. On a profile-fetch
// failure the partially-established backend session is destroyed and the
// session store is left untouched, so no partial state ever becomes visible.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domainauth.UserRecord, error) {
	if in.Login == "" {
		return nil, apperrors.ValidationField("login", "login is required")
	}
	if in.Password == "" {
		return nil, apperrors.ValidationField("password", "password is required")
	}

	handle, err := s.authenticator.Authenticate(ctx, domainauth.Credentials{
		Login:    in.Login,
		Password: in.Password,
	})
	if err != nil {
		s.recordEvent(ctx, ports.LoginEvent{
			Username:   in.Login,
			Kind:       ports.LoginEventFailed,
			RemoteAddr: in.RemoteAddr,
			Detail:     err.Error(),
		})
		return nil, err
	}

	profile, err := s.authenticator.FetchProfile(ctx, handle)
	if err != nil {
		// Roll back: the backend session exists but we cannot compose a user
		// record, so the login attempt is fatal.
		if destroyErr := s.authenticator.Destroy(ctx, handle); destroyErr != nil {
			s.logger.WarnContext(ctx, "rollback of backend session failed", "error", destroyErr)
		}
		s.recordEvent(ctx, ports.LoginEvent{
			UserID:     handle.UserID,
			Username:   in.Login,
			Kind:       ports.LoginEventFailed,
			RemoteAddr: in.RemoteAddr,
			Detail:     err.Error(),
		})
		return nil, err
	}

	rp := s.roles.Map(profile.Roles)

	rec := domainauth.UserRecord{
		ID:              uuid.NewString(),
		UserID:          profile.UserID,
		Name:            profile.DisplayName,
		Username:        profile.Username,
		OdooSessionID:   handle.SessionID,
		Role:            rp.Role,
		IsAdmin:         rp.IsAdmin,
		IsIntranetAdmin: rp.IsIntranetAdmin,
		DepartmentID:    profile.DepartmentID,
		DepartmentName:  profile.DepartmentName,
	}

	if saveErr := s.sessions.Save(ctx, rec); saveErr != nil {
		if destroyErr := s.authenticator.Destroy(ctx, handle); destroyErr != nil {
			s.logger.WarnContext(ctx, "rollback of backend session failed", "error", destroyErr)
		}
		return nil, apperrors.Wrap(saveErr, apperrors.ErrCodeInternal, "persist user record")
	}

	s.recordEvent(ctx, ports.LoginEvent{
		UserID:     rec.UserID,
		Username:   rec.Username,
		Role:       rec.Role,
		Kind:       ports.LoginEventSucceeded,
		RemoteAddr: in.RemoteAddr,
	})

	return &rec, nil
}

// GetSession retrieves the user record for a gateway session id.
// Any store miss, including a malformed record, reads as NotFound.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.UserRecord, error) {
	if sessionID == "" {
		return nil, apperrors.NotFound("session id is required")
	}

	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "session not found")
	}
	return &rec, nil
}

// Logout destroys the backend session and clears the stored record.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to log out
	}

	rec, err := s.sessions.Get(ctx, sessionID)
	if err == nil {
		if destroyErr := s.authenticator.Destroy(ctx, rec.Handle()); destroyErr != nil {
			s.logger.WarnContext(ctx, "destroy backend session failed", "error", destroyErr)
		}
		s.recordEvent(ctx, ports.LoginEvent{
			UserID:   rec.UserID,
			Username: rec.Username,
			Role:     rec.Role,
			Kind:     ports.LoginEventLogout,
		})
	}

	if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
		return apperrors.Wrap(deleteErr, apperrors.ErrCodeInternal, "clear session")
	}
	return nil
}

// Invalidate clears a session after a backend call signaled that it is no
// longer authenticated. The backend session is not destroyed here: the 401/403
// already proves it is dead.
func (s *AuthService) Invalidate(ctx context.Context, sessionID, reason string) error {
	if sessionID == "" {
		return nil
	}

	if rec, err := s.sessions.Get(ctx, sessionID); err == nil {
		s.recordEvent(ctx, ports.LoginEvent{
			UserID:   rec.UserID,
			Username: rec.Username,
			Role:     rec.Role,
			Kind:     ports.LoginEventExpired,
			Detail:   reason,
		})
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "clear expired session")
	}
	return nil
}

// recordEvent writes an audit event. Auditing is best-effort and never fails
// the auth flow.
func (s *AuthService) recordEvent(ctx context.Context, ev ports.LoginEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "record auth audit event failed", "kind", string(ev.Kind), "error", err)
	}
}
