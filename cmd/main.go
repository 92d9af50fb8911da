package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/courseenroll/backend/docs"
	"github.com/courseenroll/backend/internal/database"
	"github.com/courseenroll/backend/internal/server"
	"github.com/courseenroll/backend/libs/config"
	"github.com/courseenroll/backend/libs/logger"
	"go.uber.org/zap"
)

// @title Course Enrollment API
// @version 1.0
// @description API for course catalog management and student enrollment

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Course Enrollment API")

	// Connect to database
	db, err := database.Connect(context.Background(), cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations on start-up when requested
	if cfg.Migration.AutoMigrate {
		maintenance := database.NewMaintenance(db, cfg.DSN(), logger.Logger)
		if err := maintenance.Migrate(context.Background()); err != nil {
			logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	if cfg.Migration.Secret == "" {
		logger.Logger.Warn("MIGRATE_SECRET is not set, /admin endpoints are disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(cfg, db, logger.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
