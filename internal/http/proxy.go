package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/mtnd/patrimoine-gateway/internal/adapters/odoo"
	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"
)

// proxySessionKey carries the gateway session id of the proxied request so the
// response hook can invalidate it.
type proxySessionKey struct{}

// sessionRejectedError signals that the backend refused the session attached
// to a proxied request.
type sessionRejectedError struct {
	sessionID string
	status    int
}

func (e *sessionRejectedError) Error() string {
	return "backend rejected session"
}

// BackendProxy forwards API and backend web requests to Odoo. The gateway
// session cookie is swapped for the stored backend session cookie before
// forwarding. A 401 or 403 from the backend on a request that carried a
// session invalidates that session: the backend is the authority on session
// liveness, and a rejected session must not linger in the store.
type BackendProxy struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger

	proxy *httputil.ReverseProxy
}

// NewBackendProxy builds a reverse proxy to the given backend base URL.
func NewBackendProxy(target *url.URL, svc AuthServiceInterface, cookieDomain string, logger *slog.Logger) *BackendProxy {
	p := &BackendProxy{
		Svc:          svc,
		CookieDomain: cookieDomain,
		Logger:       logger,
	}
	p.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = target.Host
			pr.SetXForwarded()
		},
		ModifyResponse: p.checkResponse,
		ErrorHandler:   p.handleError,
	}
	return p
}

func (p *BackendProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(GatewaySessionCookie)
	if err != nil {
		// Anonymous request; forward without any session cookie.
		stripSessionCookie(r)
		p.proxy.ServeHTTP(w, r)
		return
	}

	rec, err := p.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Stale cookie with no live session behind it.
		stripSessionCookie(r)
		clearSessionCookie(w, r, p.CookieDomain)
		p.proxy.ServeHTTP(w, r)
		return
	}

	// Swap the gateway session cookie for the backend one and remember the
	// gateway id for the response hook.
	stripSessionCookie(r)
	r.AddCookie(&http.Cookie{Name: odoo.SessionCookieName, Value: rec.OdooSessionID})
	r = r.WithContext(SetUserInContext(r.Context(), rec))
	ctx := contextWithProxySession(r.Context(), sessionCookie.Value)
	p.proxy.ServeHTTP(w, r.WithContext(ctx))
}

// checkResponse inspects the backend response. An auth failure on a request
// that carried a session turns into a sessionRejectedError handled by
// handleError; everything else streams through untouched.
func (p *BackendProxy) checkResponse(resp *http.Response) error {
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return nil
	}
	sessionID, ok := proxySessionFromContext(resp.Request.Context())
	if !ok {
		return nil
	}
	// The proxy closes the response body when ModifyResponse errors.
	return &sessionRejectedError{sessionID: sessionID, status: resp.StatusCode}
}

func (p *BackendProxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var rejected *sessionRejectedError
	if errors.As(err, &rejected) {
		if invErr := p.Svc.Invalidate(r.Context(), rejected.sessionID, "backend_rejected"); invErr != nil {
			p.Logger.WarnContext(r.Context(), "session invalidation failed",
				"session_id", rejected.sessionID, "error", invErr)
		}
		clearSessionCookie(w, r, p.CookieDomain)
		if rejected.status == http.StatusForbidden {
			WriteAppError(w, apperrors.Unauthorized("access denied by backend"))
			return
		}
		WriteAppError(w, apperrors.SessionExpired("session is no longer valid"))
		return
	}

	p.Logger.ErrorContext(r.Context(), "backend proxy error",
		"path", r.URL.Path, "error", err)
	WriteError(w, ErrorParams{
		Code:    http.StatusBadGateway,
		ErrCode: "bad_gateway",
		Err:     errors.New("backend unavailable"),
	})
}

// stripSessionCookie removes the session cookie from the request's Cookie
// header, keeping all other cookies intact.
func stripSessionCookie(r *http.Request) {
	cookies := r.Cookies()
	r.Header.Del("Cookie")
	for _, c := range cookies {
		if c.Name == GatewaySessionCookie || c.Name == odoo.SessionCookieName {
			continue
		}
		r.AddCookie(c)
	}
}

func contextWithProxySession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, proxySessionKey{}, sessionID)
}

func proxySessionFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(proxySessionKey{}).(string)
	return sessionID, ok && sessionID != ""
}
