package bootstrap

import (
	"log/slog"

	"github.com/mtnd/patrimoine-gateway/config"
	"github.com/mtnd/patrimoine-gateway/internal/adapters/authroles"
	"github.com/mtnd/patrimoine-gateway/internal/adapters/devauth"
	"github.com/mtnd/patrimoine-gateway/internal/adapters/odoo"
	redisadapter "github.com/mtnd/patrimoine-gateway/internal/adapters/redis"
	"github.com/mtnd/patrimoine-gateway/internal/ports"
	"github.com/mtnd/patrimoine-gateway/internal/service"
	"github.com/redis/go-redis/v9"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	// Sessions is optional; when nil a redis-backed store is built from
	// RedisClient.
	Sessions ports.SessionStore
	Audit    ports.AuditRecorder
	Logger   *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	sessionStore := cfg.Sessions
	if sessionStore == nil {
		if cfg.RedisClient == nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("auth service disabled: no session store configured", "mode", cfg.Auth.Mode)
			}
			return nil
		}
		sessionStore = redisadapter.NewSessionStore(cfg.RedisClient, cfg.Auth.SessionTTL)
	}

	// Role mapper is shared by both modes.
	roleMapper := authroles.PrecedenceMapper{}

	authenticator := buildAuthenticator(cfg)
	if authenticator == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Authenticator: authenticator,
		Sessions:      sessionStore,
		Roles:         roleMapper,
		Audit:         cfg.Audit,
		Logger:        cfg.Logger,
	})
}

//nolint:ireturn // selection between backend and dev authenticators happens at runtime.
func buildAuthenticator(cfg AuthConfig) ports.Authenticator {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			Login:    cfg.Auth.DevAuth.Login,
			Password: cfg.Auth.DevAuth.Password,
			UserID:   cfg.Auth.DevAuth.UserID,
			Name:     cfg.Auth.DevAuth.Name,
			Roles:    cfg.Auth.DevAuth.Roles,
		})
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
			}
			return nil
		}
		return prov

	case config.AuthModeOdoo:
		client, err := odoo.NewClient(odoo.ClientConfig{
			BaseURL:  cfg.Auth.Odoo.BaseURL,
			Database: cfg.Auth.Odoo.Database,
			Timeout:  cfg.Auth.Odoo.Timeout,
		})
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("failed to create backend auth client, auth disabled", "error", err)
			}
			return nil
		}
		return client

	default:
		return nil
	}
}
