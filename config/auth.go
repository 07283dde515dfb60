package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

const defaultSessionTTL = 8 * time.Hour

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"jobboard"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"jobboard"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
	// RoleClaim is a JMESPath expression selecting the role from the token
	// claims, e.g. "role", "realm_access.roles" or "app_metadata.role".
	RoleClaim string `env:"ROLE_CLAIM" envDefault:"role"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID    string `env:"USER_ID"    envDefault:"dev-user"`
	Email     string `env:"EMAIL"      envDefault:"dev@example.com"`
	FirstName string `env:"FIRST_NAME" envDefault:"Dev"`
	LastName  string `env:"LAST_NAME"  envDefault:"User"`
	// Role is the raw role handed to the resolver: a bare name such as
	// "employer" or a JSON payload such as {"name":"Admin"}.
	Role string `env:"ROLE" envDefault:"job_seeker"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionTTL caps the lifetime of a login session.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// RoleAliases maps deployment-specific role names onto recognized roles,
	// e.g. AUTH_ROLE_ALIASES="hr_team:employer,staff:admin".
	RoleAliases map[string]string `env:"AUTH_ROLE_ALIASES"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = defaultSessionTTL
	}
	a.OAuth.RoleClaim = strings.TrimSpace(a.OAuth.RoleClaim)
	if a.OAuth.RoleClaim == "" {
		a.OAuth.RoleClaim = "role"
	}
	a.DevAuth.Role = strings.TrimSpace(a.DevAuth.Role)
}
