// Package server assembles the HTTP router from the stores, services and handlers
package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/courseenroll/backend/internal/database"
	"github.com/courseenroll/backend/internal/handlers"
	"github.com/courseenroll/backend/internal/middleware"
	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/internal/repositories"
	"github.com/courseenroll/backend/internal/services"
	authMiddleware "github.com/courseenroll/backend/libs/auth/middleware"
	"github.com/courseenroll/backend/libs/auth/service"
	"github.com/courseenroll/backend/libs/config"
	loggerMiddleware "github.com/courseenroll/backend/libs/logger/middleware"
	sharedMiddleware "github.com/courseenroll/backend/libs/middlewares"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// NewRouter wires repositories, services and handlers on top of the given pool and returns the root handler
func NewRouter(cfg *config.Config, db *sql.DB, logger *zap.Logger) http.Handler {
	// Initialize credential primitives
	tokenGenerator := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	passwordHasher := service.NewPasswordHasher(cfg.Security.BcryptCost)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger)
	courseRepo := repositories.NewCourseRepository(db, logger)
	enrollmentRepo := repositories.NewEnrollmentRepository(db, logger)

	// Initialize services
	authService := services.NewAuthService(userRepo, passwordHasher, tokenGenerator, logger)
	principalService := services.NewPrincipalService(userRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	courseService := services.NewCourseService(courseRepo, logger)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, logger)
	maintenance := database.NewMaintenance(db, cfg.DSN(), logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	courseHandler := handlers.NewCourseHandler(courseService, logger)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, logger)
	adminHandler := handlers.NewAdminHandler(maintenance, logger)

	guards := handlers.Guards{
		Auth:    middleware.AuthMiddleware(tokenGenerator, principalService, logger),
		Admin:   middleware.RoleMiddleware(models.RoleAdmin, logger),
		Student: middleware.RoleMiddleware(models.RoleStudent, logger),
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(sharedMiddleware.DefaultMaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Get("/", adminHandler.Health)
	authHandler.RegisterRoutes(r)
	userHandler.RegisterRoutes(r, guards)
	courseHandler.RegisterRoutes(r, guards)
	enrollmentHandler.RegisterRoutes(r, guards)
	adminHandler.RegisterRoutes(r, authMiddleware.APIKeyMiddleware(authMiddleware.MigrateTokenHeader, cfg.Migration.Secret))

	return r
}
