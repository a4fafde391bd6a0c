package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/dataaudit/internal/config"
	"github.com/JonMunkholm/dataaudit/internal/logging"
	"github.com/JonMunkholm/dataaudit/internal/metrics"
	"github.com/JonMunkholm/dataaudit/internal/upload"
	"github.com/JonMunkholm/dataaudit/internal/web"
)

func main() {
	// .env values never override variables already set in the environment.
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	gateway, err := upload.NewGateway(ctx, upload.Config{
		Dir:               cfg.Upload.Dir,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxFileSize:       cfg.Upload.MaxFileSize,
		MaxConcurrent:     cfg.Upload.MaxConcurrent,
		MaxWaitTime:       cfg.Upload.MaxWaitTime,
		KeepFiles:         cfg.Upload.KeepFiles,
	}, upload.WithObserver(m))
	if err != nil {
		slog.Error("failed to create upload gateway", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(cfg, gateway, m)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := gateway.Limiter().ActiveCount(); active > 0 {
			slog.Info("waiting for uploads to complete", "active", active)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(ctx); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
