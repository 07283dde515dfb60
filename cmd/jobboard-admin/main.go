package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/target/jobboard/config"
	"github.com/target/jobboard/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

// usageError marks bad invocations; main exits 2 for them instead of 1.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr)) //nolint:forbidigo // CLI exit status
}

func realMain(args []string, stdout, stderr io.Writer) int {
	logger := bootstrap.InitLogger(false)

	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	cmdName := args[0]
	cmd, ok := commands()[cmdName]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", cmdName)
		printUsage(stderr)
		return 2
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		return 1
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    stdout,
	}
	if runErr := cmd.run(cmdCtx, args[1:]); runErr != nil {
		var ue usageError
		if errors.As(runErr, &ue) {
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", cmdName, runErr)
			return 2
		}
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		return 1
	}
	return 0
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"resolve-role": {
			name:        "resolve-role",
			description: "Resolve a raw role claim (JSON or bare string) to an application role",
			run:         runResolveRole,
		},
		"page-window": {
			name:        "page-window",
			description: "Print the pagination markers for a page and total",
			run:         runPageWindow,
		},
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Usage: jobboard-admin <command> [flags]\n\nAvailable commands:\n")
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-16s %s\n", name, commands()[name].description)
	}
}
