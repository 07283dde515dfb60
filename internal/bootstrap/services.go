package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/jobboard/config"
	"github.com/target/jobboard/internal/data"
	httpx "github.com/target/jobboard/internal/http"
	"github.com/target/jobboard/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs         *service.JobPostingService
	Applications *service.ApplicationService
	// Auth is nil when authentication is disabled or misconfigured.
	Auth   *service.AuthService
	Health map[string]httpx.HealthCheck
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices wires repositories into services.
func BuildServices(deps ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	jobRepo := data.NewJobPostingRepo(deps.DB)
	appRepo := data.NewApplicationRepo(deps.DB)

	return ServiceContainer{
		Jobs: service.NewJobPostingService(service.JobPostingServiceOptions{
			Repo:   jobRepo,
			Logger: logger,
		}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Repo:   appRepo,
			Jobs:   jobRepo,
			Logger: logger,
		}),
		Auth: BuildAuthService(AuthConfig{
			Auth:          cfg.Auth,
			SessionPrefix: cfg.Redis.SessionPrefix,
			RedisClient:   deps.RedisClient,
			Logger:        logger,
		}),
		Health: healthChecks(deps.DB, deps.RedisClient),
	}
}

func healthChecks(db *sql.DB, rdb redis.UniversalClient) map[string]httpx.HealthCheck {
	checks := map[string]httpx.HealthCheck{}
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}
