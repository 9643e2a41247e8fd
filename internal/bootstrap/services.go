package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mtnd/patrimoine-gateway/config"
	redisadapter "github.com/mtnd/patrimoine-gateway/internal/adapters/redis"
	"github.com/mtnd/patrimoine-gateway/internal/data"
	"github.com/mtnd/patrimoine-gateway/internal/ports"
	"github.com/mtnd/patrimoine-gateway/internal/service"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Audit    *data.LoginAuditRepo
	Sessions *redisadapter.SessionStore
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories, adapters, and services together.
func NewServices(deps *ServiceDeps) ServiceContainer {
	var audit *data.LoginAuditRepo
	if deps.DB != nil {
		audit = data.NewLoginAuditRepo(deps.DB)
	}

	var sessions *redisadapter.SessionStore
	if deps.RedisClient != nil {
		sessions = redisadapter.NewSessionStore(deps.RedisClient, deps.Config.Auth.SessionTTL)
	}

	authCfg := AuthConfig{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		Logger:      deps.Logger,
	}
	if sessions != nil {
		authCfg.Sessions = sessions
	}
	if audit != nil {
		authCfg.Audit = audit
	}

	return ServiceContainer{
		Auth:     BuildAuthService(authCfg),
		Audit:    audit,
		Sessions: sessions,
	}
}

// RunServicesWithShutdown starts the HTTP server and background watchers and
// blocks until a shutdown signal arrives or a component fails.
func RunServicesWithShutdown(cfg *config.AppConfig, services ServiceContainer, logger *slog.Logger) error {
	if services.Auth == nil {
		return errors.New("auth service is not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := StartHTTPServer(httpServerConfig(cfg, services, logger))

	g, gctx := errgroup.WithContext(ctx)

	if services.Sessions != nil {
		g.Go(func() error {
			return watchSessions(gctx, services.Sessions, logger)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(context.Background(), server, logger)
	})

	return g.Wait()
}

// httpServerConfig builds the HTTP server wiring from the container. A nil
// *LoginAuditRepo must stay a nil interface here so the router skips the audit
// endpoint instead of registering a handler over a dead repo.
func httpServerConfig(cfg *config.AppConfig, services ServiceContainer, logger *slog.Logger) *HTTPServerConfig {
	serverCfg := &HTTPServerConfig{
		Config: cfg,
		Auth:   services.Auth,
		Logger: logger,
	}
	if services.Audit != nil {
		serverCfg.Audit = services.Audit
	}
	return serverCfg
}

// watchSessions subscribes to session store change events so any gateway
// instance observes logins and invalidations performed by its peers.
func watchSessions(ctx context.Context, store ports.SessionWatcher, logger *slog.Logger) error {
	events, err := store.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			logger.InfoContext(ctx, "session change",
				"session_id", ev.SessionID,
				"kind", string(ev.Kind),
			)
		}
	}
}
