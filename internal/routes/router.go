package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutor-platform/internal/config"
	"tutor-platform/internal/delivery/http/handler"
	"tutor-platform/internal/infrastructure/storage"
	"tutor-platform/internal/logger"
	"tutor-platform/internal/metrics"
	"tutor-platform/internal/middleware"
	"tutor-platform/internal/usecase/account"
	"tutor-platform/internal/usecase/auth"
)

type HealthChecker interface {
	Health() error
}

// Dependencies are the wired services the router exposes.
type Dependencies struct {
	Health   HealthChecker
	Auth     *auth.Service
	Accounts *account.Service
	Images   storage.ImageStore
	Metrics  *metrics.Collectors
}

func SetupRoutes(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, metrics, logging, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(deps.Metrics.Middleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Media.MaxBytes + 1<<20))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "Database connection failed",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	if cfg.Metrics.Enabled && deps.Metrics != nil {
		router.GET("/metrics", deps.Metrics.Handler())
	}

	authHandler := handler.NewAuthHandler(deps.Auth)
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	adminHandler := handler.NewAdminHandler(deps.Accounts)
	dashboardHandler := handler.NewDashboardHandler(deps.Accounts)
	mediaHandler := handler.NewMediaHandler(deps.Images)

	router.GET("/media/*filepath", mediaHandler.Serve)

	accountHandler.RegisterRoutes(router)

	credentials := router.Group("")
	credentials.Use(middleware.RateLimitMiddleware(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst))
	{
		authHandler.RegisterRoutes(credentials)
	}

	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth))
	{
		accountHandler.RegisterProfileRoutes(protected)

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(admin)
		}

		tutor := protected.Group("/tutor")
		tutor.Use(middleware.TutorOnly())
		{
			tutor.GET("/dashboard/students", dashboardHandler.TutorStudents)
		}

		student := protected.Group("/student")
		student.Use(middleware.StudentOnly())
		{
			student.GET("/dashboard/tutors", dashboardHandler.StudentTutors)
		}
	}

	logger.Info("All routes initialized")
	return router
}
