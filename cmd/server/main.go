package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sentencescramble/internal/config"
	"sentencescramble/internal/database"
	"sentencescramble/internal/handlers"
	"sentencescramble/internal/logging"
	"sentencescramble/internal/repository"
	"sentencescramble/internal/security"
	"sentencescramble/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	_, flush, err := logging.Setup(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return err
	}
	defer flush()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	zap.L().Info("database connection established", zap.String("type", cfg.DatabaseType))

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	progressRepo := repository.NewProgressRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	draftRepo := repository.NewDraftRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize email: %w", err)
	}
	if !cfg.EmailEnabled() {
		zap.L().Info("SES_FROM_EMAIL is not set; email routes will return 503")
	}
	playService := service.NewPlayService()
	authoringService := service.NewAuthoringService(historyRepo, draftRepo, cfg.AppBaseURL)
	progressService := service.NewProgressService(progressRepo, playService)
	receiptService := service.NewReceiptService(cfg.ReceiptSigningKey, cfg.ReceiptTTL)
	if !receiptService.IsEnabled() {
		zap.L().Warn("RECEIPT_SIGNING_KEY is not set; results will not carry signed receipts")
	}

	limiter := security.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	handler := handlers.NewRouter(
		handlers.NewAssignmentHandler(authoringService, emailService),
		handlers.NewPlayHandler(playService, progressService, receiptService, emailService),
		limiter,
	)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info("server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	zap.L().Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
