package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "odoo")
	t.Setenv("ODOO_BASE_URL", "https://odoo.example.org")
	t.Setenv("ODOO_DB", "patrimoine_prod")
	t.Setenv("ODOO_TIMEOUT", "30s")
	t.Setenv("SESSION_TTL", "8h")
	t.Setenv("DEV_AUTH_LOGIN", "dev-login")
	t.Setenv("DEV_AUTH_PASSWORD", "dev-pass")
	t.Setenv("DEV_AUTH_USER_ID", "42")
	t.Setenv("DEV_AUTH_NAME", "Dev Person")
	t.Setenv("DEV_AUTH_ROLES", "director;agent")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOdoo,
		Odoo: OdooConfig{
			BaseURL:  "https://odoo.example.org",
			Database: "patrimoine_prod",
			Timeout:  30 * time.Second,
		},
		DevAuth: DevAuthConfig{
			Login:    "dev-login",
			Password: "dev-pass",
			UserID:   42,
			Name:     "Dev Person",
			Roles:    []string{"director", "agent"},
		},
		SessionTTL: 8 * time.Hour,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.Auth.Mode != AuthModeOdoo {
		t.Errorf("expected default auth mode %q, got %q", AuthModeOdoo, cfg.Auth.Mode)
	}
	if cfg.Auth.Odoo.BaseURL != "http://localhost:8069" {
		t.Errorf("unexpected default odoo base url: %q", cfg.Auth.Odoo.BaseURL)
	}
	if cfg.Auth.Odoo.Database != "odoo17_2" {
		t.Errorf("unexpected default odoo database: %q", cfg.Auth.Odoo.Database)
	}
	if cfg.Auth.SessionTTL != 12*time.Hour {
		t.Errorf("unexpected default session ttl: %v", cfg.Auth.SessionTTL)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("unexpected default http addr: %q", cfg.HTTP.Addr)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    AuthMode
		expectError bool
	}{
		{input: "odoo", expected: AuthModeOdoo},
		{input: "mock", expected: AuthModeMock},
		{input: "ODOO", expected: AuthModeOdoo},
		{input: "Mock", expected: AuthModeMock},
		{input: "oauth", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for %q but got none", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if mode != tt.expected {
				t.Errorf("expected mode %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{
		SessionTTL: -1 * time.Hour,
		Odoo:       OdooConfig{Timeout: 0},
	}

	cfg.Sanitize()

	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("expected session ttl to fall back to default, got %v", cfg.SessionTTL)
	}
	if cfg.Odoo.Timeout != 15*time.Second {
		t.Fatalf("expected odoo timeout to fall back to default, got %v", cfg.Odoo.Timeout)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	tests := []struct {
		name     string
		dev      string
		nodeEnv  string
		expected bool
	}{
		{name: "dev flag set", dev: "true", expected: true},
		{name: "node env development", nodeEnv: "development", expected: true},
		{name: "node env dev", nodeEnv: "dev", expected: true},
		{name: "node env production", nodeEnv: "production", expected: false},
		{name: "nothing set", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEV", tt.dev)
			t.Setenv("NODE_ENV", tt.nodeEnv)

			var cfg AppConfig
			if err := env.Parse(&cfg); err != nil {
				t.Fatalf("parse config: %v", err)
			}
			cfg.Sanitize()

			if cfg.IsDev != tt.expected {
				t.Errorf("expected IsDev=%v, got %v", tt.expected, cfg.IsDev)
			}
		})
	}
}
