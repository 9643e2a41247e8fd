package devauth

// Package devauth provides a simple, config-driven Authenticator for local
// development, so the gateway can run without a reachable Odoo instance.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"
)

// Config controls the dev authenticator behavior.
// All fields are required except Roles, which may be empty.
type Config struct {
	Login    string
	UserID   int
	Name     string
	Roles    []string
	Password string // optional; empty accepts any non-empty password
}

// Provider implements the Authenticator port for local development.
// Authenticate accepts the configured login and returns a locally generated
// session handle; FetchProfile returns the configured profile.
type Provider struct {
	cfg Config
}

// NewProvider constructs a dev authenticator from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Login == "" {
		return nil, errors.New("dev auth: Login is required")
	}
	if cfg.UserID == 0 {
		cfg.UserID = 1
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Login
	}
	cfg.Roles = append([]string(nil), cfg.Roles...)
	return &Provider{cfg: cfg}, nil
}

func (p *Provider) Authenticate(_ context.Context, creds domainauth.Credentials) (domainauth.SessionHandle, error) {
	if creds.Login != p.cfg.Login || creds.Password == "" {
		return domainauth.SessionHandle{}, apperrors.AuthenticationFailed("Access Denied")
	}
	if p.cfg.Password != "" && creds.Password != p.cfg.Password {
		return domainauth.SessionHandle{}, apperrors.AuthenticationFailed("Access Denied")
	}

	sid, err := randomString(32)
	if err != nil {
		return domainauth.SessionHandle{}, fmt.Errorf("generate session id: %w", err)
	}
	return domainauth.SessionHandle{SessionID: sid, UserID: p.cfg.UserID}, nil
}

func (p *Provider) FetchProfile(_ context.Context, _ domainauth.SessionHandle) (domainauth.Profile, error) {
	return domainauth.Profile{
		UserID:      p.cfg.UserID,
		DisplayName: p.cfg.Name,
		Username:    p.cfg.Login,
		Roles:       append([]string(nil), p.cfg.Roles...),
	}, nil
}

func (p *Provider) Destroy(_ context.Context, _ domainauth.SessionHandle) error {
	return nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < n {
		s += "0"
	}
	return s[:n], nil
}
