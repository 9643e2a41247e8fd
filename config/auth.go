package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOdoo authenticates credentials against an Odoo backend.
	AuthModeOdoo AuthMode = "odoo"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "odoo", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: odoo, mock)", v)
	}
}

// OdooConfig contains the Odoo backend connection configuration.
type OdooConfig struct {
	// BaseURL is the Odoo instance the gateway authenticates against and
	// proxies to.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8069"`

	// Database is the Odoo database name passed to session authentication.
	Database string `env:"DB" envDefault:"odoo17_2"`

	// Timeout bounds every outbound call to the backend.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Login    string   `env:"LOGIN"    envDefault:"dev-user"`
	Password string   `env:"PASSWORD" envDefault:"dev-password"`
	UserID   int      `env:"USER_ID"  envDefault:"1"`
	Name     string   `env:"NAME"     envDefault:"Dev User"`
	Roles    []string `env:"ROLES"    envDefault:"admin"      envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"odoo"`

	// Odoo backend configuration (used when Mode=odoo).
	Odoo OdooConfig `envPrefix:"ODOO_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionTTL is how long a gateway session lives in the store without
	// being re-established.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
	if a.Odoo.Timeout <= 0 {
		a.Odoo.Timeout = 15 * time.Second
	}
}
