package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run serves HTTP and runs the summary schedule until ctx is canceled or
// either of them fails, then shuts both down gracefully.
func (app *application) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(app.config.Server.Port)))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", app.config.Server.Port, err)
	}
	return app.serve(ctx, listener)
}

// serve runs the application on an already bound listener.
func (app *application) serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", slog.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	app.scheduler.Start()

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(app.config.Server.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
		}
		if err := app.scheduler.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("scheduler shutdown failed: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		app.logger.Error("server stopped with error", slog.String("error", err.Error()))
		return err
	}

	app.logger.Info("server shutdown completed")
	return nil
}
