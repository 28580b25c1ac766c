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
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"waste-monitor-backend/config"
	"waste-monitor-backend/internal/api"
	"waste-monitor-backend/internal/clock"
	"waste-monitor-backend/internal/db"
	"waste-monitor-backend/internal/logging"
	"waste-monitor-backend/internal/notification"
	"waste-monitor-backend/internal/store"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "err", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", configPath)
		cfg, err = config.Default()
	}
	if err != nil {
		slog.Error("failed to load configuration", "path", configPath, "err", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, version)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "path", configPath, "env", cfg.AppEnv)

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	gormDB, err := db.Init(&cfg.Database, level)
	if err != nil {
		logger.Error("failed to initialize database", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	var (
		alerts         api.AlertDispatcher
		webpushOptions *webpush.Options
	)
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.Alerts.ScoreThreshold, appStore, webpushOptions, logger)
		pool.Start(ctx)
		alerts = pool
		logger.Info("low score alerts enabled", "threshold", cfg.Alerts.ScoreThreshold, "workers", cfg.WorkerPool.Size)
	} else {
		logger.Warn("VAPID keys not configured; low score alerts disabled")
	}

	handler := api.NewHandler(appStore, clock.System{}, alerts, webpushOptions, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(handler, cfg.Server, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", "err", err)
		os.Exit(1)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server gracefully stopped")
}
