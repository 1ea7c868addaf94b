package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	environment "vkshell/internal/env"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := environment.Setup(ctx)
	if err != nil {
		return fmt.Errorf("setup environment: %w", err)
	}

	logger := env.Logger
	logger.Info("Starting vkshell", slog.String("title", env.Config.Window.Title))

	defer func() {
		for _, closer := range env.Closers {
			if err := closer(); err != nil {
				logger.Error("Failed to close resource", slog.Any("error", err))
			}
		}
		logger.Info("Application stopped")
	}()

	// Start observability server in background
	if srv := env.Servers.HTTP.Observability; srv != nil {
		go func() {
			logger.Info("Starting observability server", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Observability server error", slog.Any("error", err))
			}
		}()
	}

	if err := env.Services.Workers.Start(); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	runErr := env.Services.App.Run(ctx)
	if runErr != nil {
		logger.Error("Application failed", slog.Any("error", runErr))
	}

	logger.Info("Shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.Config.ShutdownDuration)
	defer cancel()

	env.Services.Workers.Stop()

	if srv := env.Servers.HTTP.Observability; srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Observability server shutdown error", slog.Any("error", err))
		}
	}

	return runErr
}
