package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dancefloor/backend/internal/broker"
	"github.com/dancefloor/backend/internal/config"
	"github.com/dancefloor/backend/internal/database"
	"github.com/dancefloor/backend/internal/logging"
	"github.com/dancefloor/backend/internal/router"
	"github.com/dancefloor/backend/internal/sentry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize structured logging (reads LOGGING_LEVEL env var)
	logging.Initialize()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.JWTSecret == config.Default().JWTSecret {
		slog.Warn("JWT_SECRET is not set, using the development default")
	}

	// Error reporting (no-op without SENTRY_DSN)
	if err := sentry.Init(cfg.SentryDSN, cfg.SentryEnvironment); err != nil {
		slog.Error("failed to initialize sentry", slog.Any("error", err))
	}
	defer sentry.Flush(2 * time.Second)

	// Initialize database
	sqlDB, err := database.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Run migrations
	if err := database.RunMigrations(sqlDB); err != nil {
		slog.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := broker.New(cfg.HubBufferSize)
	handler, sockets := router.New(ctx, cfg, sqlDB, hub)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	sockets.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
