package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/jobboard/config"
	"github.com/target/jobboard/internal/adapters/authroles"
	"github.com/target/jobboard/internal/adapters/devauth"
	"github.com/target/jobboard/internal/adapters/oidc"
	redisadapter "github.com/target/jobboard/internal/adapters/redis"
	"github.com/target/jobboard/internal/ports"
	"github.com/target/jobboard/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth          config.AuthConfig
	SessionPrefix string
	RedisClient   redis.UniversalClient
	Logger        *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RedisClient == nil {
		logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		return nil
	}

	roleMapper, err := authroles.NewMapper(cfg.Auth.RoleAliases)
	if err != nil {
		logger.Warn("invalid AUTH_ROLE_ALIASES, auth disabled", "error", err)
		return nil
	}

	var prov ports.AuthProvider
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov = buildDevAuthProvider(cfg.Auth, logger)
	case config.AuthModeOAuth:
		prov = buildOAuthProvider(cfg.Auth.OAuth, logger)
	}
	if prov == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   prov,
		Sessions:   redisadapter.NewSessionStore(cfg.RedisClient, cfg.SessionPrefix),
		Roles:      roleMapper,
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     logger,
	})
}

//nolint:ireturn // nil interface signals a disabled provider.
func buildDevAuthProvider(cfg config.AuthConfig, logger *slog.Logger) ports.AuthProvider {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          cfg.DevAuth.UserID,
		Email:           cfg.DevAuth.Email,
		FirstName:       cfg.DevAuth.FirstName,
		LastName:        cfg.DevAuth.LastName,
		Role:            cfg.DevAuth.Role,
		SessionDuration: cfg.SessionTTL,
	})
	if err != nil {
		logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		return nil
	}
	logger.Warn("dev auth enabled; every login signs in as the configured identity",
		"user_id", cfg.DevAuth.UserID,
		"role", cfg.DevAuth.Role,
	)
	return prov
}

//nolint:ireturn // nil interface signals a disabled provider.
func buildOAuthProvider(oauth config.OAuthConfig, logger *slog.Logger) ports.AuthProvider {
	// Only enable when fully configured
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
			"discovery_url_empty", oauth.DiscoveryURL == "",
			"client_id_empty", oauth.ClientID == "",
			"client_secret_empty", oauth.ClientSecret == "",
		)
		return nil
	}
	if err := oidc.ValidateRoleClaim(oauth.RoleClaim); err != nil {
		logger.Warn("invalid OAUTH_ROLE_CLAIM, auth disabled", "role_claim", oauth.RoleClaim, "error", err)
		return nil
	}

	prov, err := oidc.NewProvider(oidc.Config{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
		RoleClaim:    oauth.RoleClaim,
	})
	if err != nil {
		logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		return nil
	}
	return prov
}
