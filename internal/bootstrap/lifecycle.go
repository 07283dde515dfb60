package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/jobboard/config"
)

// RunConfig groups what RunWithShutdown needs to serve until a signal arrives.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown starts the HTTP server and blocks until SIGINT/SIGTERM or a
// server failure, then shuts the server down gracefully.
func RunWithShutdown(ctx context.Context, cfg RunConfig) error {
	if cfg.Config == nil {
		return errors.New("run config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		Errors:   errCh,
	})

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		logger.Info("shutting down services...")
		return ShutdownHTTPServer(ShutdownConfig{Context: context.WithoutCancel(ctx), Server: server, Logger: logger})
	case err := <-errCh:
		logger.Error("service error", "error", err)
		if stopErr := ShutdownHTTPServer(ShutdownConfig{Context: ctx, Server: server, Logger: logger}); stopErr != nil {
			logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}
