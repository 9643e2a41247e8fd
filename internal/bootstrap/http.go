package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mtnd/patrimoine-gateway/config"
	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	httpx "github.com/mtnd/patrimoine-gateway/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config *config.AppConfig
	Auth   httpx.AuthServiceInterface
	Audit  httpx.AuditLister
	Policy *domainauth.RoutePolicy
	Logger *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	var backendURL *url.URL
	if appCfg.Auth.Mode == config.AuthModeOdoo {
		u, err := url.Parse(appCfg.Auth.Odoo.BaseURL)
		if err != nil || u.Host == "" {
			logger.Warn("backend proxy disabled: invalid backend base URL",
				"base_url", appCfg.Auth.Odoo.BaseURL)
		} else {
			backendURL = u
		}
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Auth,
		Audit:        cfg.Audit,
		Policy:       cfg.Policy,
		BackendURL:   backendURL,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Logger:       logger,
	})

	// Order: Recover -> Logging -> Router
	handler := httpx.Recover(logger)(httpx.Logging(logger)(router))

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
