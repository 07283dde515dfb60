package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/jobboard/config"
	httpx "github.com/target/jobboard/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// Errors receives the listener error when the server stops unexpectedly. Optional.
	Errors chan<- error
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

	handler := buildHTTPHandler(routerServices(appCfg, cfg.Services, logger))
	return startServer(logger, handler, appCfg.HTTP.Addr, cfg.Errors)
}

func routerServices(appCfg *config.AppConfig, svcs ServiceContainer, logger *slog.Logger) httpx.RouterServices {
	services := httpx.RouterServices{
		Jobs:         svcs.Jobs,
		Applications: svcs.Applications,
		CookieDomain: appCfg.HTTP.CookieDomain,
		LogoutURL:    appCfg.Auth.OAuth.LogoutURL,
		Paging: httpx.Paging{
			DefaultPageSize: appCfg.Pagination.DefaultPageSize,
			MaxPageSize:     appCfg.Pagination.MaxPageSize,
			SiblingCount:    appCfg.Pagination.SiblingCount,
		},
		Health: svcs.Health,
		Logger: logger,
	}
	// A nil *AuthService must not become a non-nil interface value.
	if svcs.Auth != nil {
		services.Auth = svcs.Auth
	}
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
		services.CompressionLevel = appCfg.HTTP.CompressionLevel
	}
	return services
}

func buildHTTPHandler(services httpx.RouterServices) http.Handler {
	// Router applies Logging -> Recover -> Compression around the mux.
	return httpx.NewRouter(services)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				errCh <- err
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
