package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/factflash/internal/api"
	"github.com/vytor/factflash/internal/config"
	"github.com/vytor/factflash/internal/db"
	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/metrics"
	"github.com/vytor/factflash/internal/repository/sqlite"
	"github.com/vytor/factflash/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("FactFlash Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_batch_size=%d", cfg.DefaultBatchSize)
	log.Debug("max_batch_size=%d", cfg.MaxBatchSize)
	log.Debug("request_timeout_seconds=%d", cfg.RequestTimeoutSeconds)
	log.Debug("metrics_enabled=%v", cfg.MetricsEnabled)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	factRepo := sqlite.NewFactRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)
	masteryRepo := sqlite.NewMasteryRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)

	practiceService := services.NewPracticeService(factRepo, userRepo, masteryRepo, sessionRepo, attemptRepo, m, services.PracticeOptions{
		DefaultBatchSize: cfg.DefaultBatchSize,
		MaxBatchSize:     cfg.MaxBatchSize,
	})

	// Seed the catalog up front so the first request does not pay for it.
	if err := practiceService.EnsureCatalog(context.Background()); err != nil {
		log.Error("failed to seed fact catalog: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		DB:              database,
		PracticeService: practiceService,
		SessionService:  services.NewSessionService(userRepo, sessionRepo, attemptRepo),
		ContentService:  services.NewContentService(),
		Metrics:         m,
		RequestTimeout:  time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("FactFlash Server Stopped")
	log.Info("===========================================")
}
