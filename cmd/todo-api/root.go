package main

import (
	"context"
	"fmt"

	"github.com/deppfellow/todo-api/internal/config"
	"github.com/deppfellow/todo-api/internal/logger"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "todo-api",
	Short: "CRUD HTTP service for todo items",
	Long: `todo-api serves a small JSON API for creating, listing, updating and
deleting todo items stored in PostgreSQL (or SQLite for development).

Configuration comes from the environment and an optional .env file;
DATABASE_URL is required.`,
	SilenceUsage: true,
	// Running without a subcommand serves.
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// bootstrap loads config, builds the logger and opens the database. The
// returned cleanup closes everything bootstrap opened.
func bootstrap() (*server.Server, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, nil, err
	}

	cleanup := func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}
	return srv, cleanup, nil
}

func migrate(ctx context.Context, srv *server.Server) error {
	srv.Logger.Info().Msg("creating tables")
	if err := srv.DB.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
