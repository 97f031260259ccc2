package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/todo-api/internal/handler"
	"github.com/deppfellow/todo-api/internal/repository"
	"github.com/deppfellow/todo-api/internal/router"
	"github.com/deppfellow/todo-api/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Create the schema if needed and serve the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := bootstrap()
	if err != nil {
		return err
	}

	// The listener only starts once the table exists.
	if err := migrate(ctx, srv); err != nil {
		cleanup()
		return err
	}

	services, err := service.NewServices(srv, repository.NewRepositories(srv))
	if err != nil {
		cleanup()
		return err
	}
	srv.SetupHTTPServer(router.NewRouter(srv, handler.NewHandlers(srv, services)))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	log := srv.Logger
	select {
	case err := <-errCh:
		cleanup()
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil {
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
