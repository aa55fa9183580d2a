package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bizpos-backend/internal/bootstrap"
	"bizpos-backend/internal/config"
	"bizpos-backend/internal/handler"
	"bizpos-backend/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		logger.Error("invalid server config", "err", err)
		os.Exit(1)
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, true)
	if err != nil {
		logger.Error("failed to open settings store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	if v, err := store.SchemaVersion(ctx); err == nil {
		logger.Info("settings store ready", "env", cfg.Env, "driver", cfg.StoreDriver, "schema_version", v)
	}

	// services
	settingsSvc := bootstrap.NewSettingsService(cfg, store, logger)

	// handlers
	healthHandler := handler.HealthHandler{DB: store.Health, Timeout: cfg.HealthTimeout}
	settingsHandler := handler.SettingsHandler{Service: settingsSvc}

	router := server.NewRouter(cfg, logger, healthHandler, settingsHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
