package httpx

import (
	"log/slog"
	"net/http"
	"net/url"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Audit        AuditLister
	Policy       *domainauth.RoutePolicy
	BackendURL   *url.URL
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the gateway HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := services.Policy
	if policy == nil {
		policy = domainauth.DefaultRoutePolicy()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	mux.HandleFunc("POST /auth/login", authHandlers.Login)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /auth/status", authHandlers.Status)

	mux.HandleFunc("GET "+loginPath, loginPageHandler)
	mux.HandleFunc("GET "+unauthorizedPath, unauthorizedPageHandler)
	mux.HandleFunc("GET /", indexPageHandler)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Audit != nil {
		auditHandlers := &AuditHandlers{Repo: services.Audit}
		mux.Handle("GET /gateway/audit/logins",
			RequireAdmin(services.Auth)(http.HandlerFunc(auditHandlers.List)))
	}

	if services.BackendURL != nil {
		proxy := NewBackendProxy(services.BackendURL, services.Auth, services.CookieDomain, logger)
		mux.Handle("/api/", proxy)
		mux.Handle("/web/", proxy)
	}

	// Guard protected navigations, then classify the request before the guard
	// decides between redirects and JSON errors.
	guarded := RouteGuard(services.Auth, policy)(mux)
	return BrowserDetection()(guarded)
}
