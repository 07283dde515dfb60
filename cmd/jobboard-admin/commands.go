package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/target/jobboard/internal/adapters/authroles"
	"github.com/target/jobboard/internal/bootstrap"
	"github.com/target/jobboard/internal/pagination"
)

const defaultMigrationTimeout = 5 * time.Minute

func runMigrations(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "maximum time to wait for migrations")
	if err := fs.Parse(args); err != nil {
		return usagef("%w", err)
	}
	if *timeout <= 0 {
		return usagef("timeout must be positive")
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, cmdCtx.Config.Postgres, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("running database migrations")
	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}
	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

// runResolveRole prints the role a raw claim maps to, honoring AUTH_ROLE_ALIASES.
func runResolveRole(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("resolve-role", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return usagef("%w", err)
	}
	if fs.NArg() != 1 {
		return usagef("expected exactly one raw role argument, e.g. '{\"name\":\"employer\"}'")
	}

	mapper, err := authroles.NewMapper(cmdCtx.Config.Auth.RoleAliases)
	if err != nil {
		return fmt.Errorf("build role mapper: %w", err)
	}
	role := mapper.Map(authroles.ParseString(fs.Arg(0)))
	if !role.Recognized() {
		_, err = fmt.Fprintln(cmdCtx.Out, "unrecognized")
		return err
	}
	_, err = fmt.Fprintln(cmdCtx.Out, string(role))
	return err
}

// runPageWindow prints the window markers, bracketing the current page.
func runPageWindow(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("page-window", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page := fs.Int("page", 1, "current page (1-based)")
	total := fs.Int("total", 0, "total number of pages")
	siblings := fs.Int("siblings", cmdCtx.Config.Pagination.SiblingCount, "pages shown on each side of the current page")
	if err := fs.Parse(args); err != nil {
		return usagef("%w", err)
	}
	if *total < 0 {
		return usagef("total must not be negative")
	}
	if *siblings < 0 {
		return usagef("siblings must not be negative")
	}

	st := pagination.NewState(*page, *total, *siblings)
	markers := st.Window()
	parts := make([]string, 0, len(markers))
	for _, m := range markers {
		s := m.String()
		if !m.IsEllipsis() && m.Number == st.Current {
			s = "[" + s + "]"
		}
		parts = append(parts, s)
	}
	_, err := fmt.Fprintln(cmdCtx.Out, strings.Join(parts, " "))
	return err
}
