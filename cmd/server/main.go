package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tutor-platform/internal/app"
	"tutor-platform/internal/config"
	"tutor-platform/internal/infrastructure/database/postgres"
	"tutor-platform/internal/logger"
	"tutor-platform/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", cfg.Server.Environment),
		zap.Duration("reset_token_ttl", cfg.ResetToken.TTL),
		zap.Bool("reset_token_in_response", cfg.ResetToken.ExposeInResponse),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema migrated")
	}

	services, err := app.NewServices(cfg, db)
	if err != nil {
		logger.Fatal("Failed to wire services", zap.Error(err))
	}
	defer services.Close()

	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	go services.Auth.StartResetTokenSweeper(jobCtx, cfg.ResetToken.SweepInterval)

	router := routes.SetupRoutes(cfg, services.Dependencies())

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")
	stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}
