package httpx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	"github.com/mtnd/patrimoine-gateway/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, in service.LoginInput) (*domainauth.UserRecord, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.UserRecord, error)
	Logout(ctx context.Context, sessionID string) error
	Invalidate(ctx context.Context, sessionID, reason string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the credential submission payload. Credentials are consumed
// once and never persisted or logged.
type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login handles the credential login endpoint.
// POST /auth/login with JSON {login, password}; optional ?redirect_uri=.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	rec, err := h.Svc.Login(r.Context(), service.LoginInput{
		Login:      req.Login,
		Password:   req.Password,
		RemoteAddr: remoteAddr(r),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, r, rec.ID)

	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":        userPayload(rec),
		"redirect_to": redirectURI,
	})
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(GatewaySessionCookie); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearSessionCookie(w, r)

	if IsBrowserRequest(r) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": loginPath})
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(GatewaySessionCookie)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	rec, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or cleared elsewhere; drop the stale cookie.
		h.clearSessionCookie(w, r)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          userPayload(rec),
	})
}

// userPayload shapes the user record for API responses. The backend session id
// stays server-side.
func userPayload(rec *domainauth.UserRecord) map[string]any {
	return map[string]any{
		"id":                rec.UserID,
		"name":              rec.Name,
		"username":          rec.Username,
		"role":              rec.Role,
		"is_admin":          rec.IsAdmin,
		"is_intranet_admin": rec.IsIntranetAdmin,
		"department_id":     rec.DepartmentID,
		"department_name":   rec.DepartmentName,
	}
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	setSessionCookie(w, r, h.CookieDomain, sessionID)
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, r, h.CookieDomain)
}

// setSessionCookie writes the gateway session cookie. No MaxAge: the session
// lives for the browser session; server-side invalidation is authoritative.
func setSessionCookie(w http.ResponseWriter, r *http.Request, domain, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     GatewaySessionCookie,
		Value:    sessionID,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie clears the session cookie by setting it to expire
// immediately, mirroring the attributes used when setting it.
func clearSessionCookie(w http.ResponseWriter, r *http.Request, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     GatewaySessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// remoteAddr returns the client address, preferring the first forwarded hop.
func remoteAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// safeRedirectPath ensures the provided redirect is a same-origin relative
// path starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
