package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"buildtrack/internal/config"
	"buildtrack/internal/database"
	"buildtrack/internal/domain"
	"buildtrack/internal/middleware"
	"buildtrack/internal/modules/activity"
	"buildtrack/internal/modules/dashboard"
	"buildtrack/internal/modules/document"
	"buildtrack/internal/modules/milestone"
	"buildtrack/internal/modules/project"
	"buildtrack/internal/modules/tracking"
	"buildtrack/internal/pkg/cache"
	jwtsvc "buildtrack/internal/pkg/jwt"
	"buildtrack/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	if err := db.AutoMigrate(&domain.Project{}, &domain.ProjectCounter{}); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	projectRepo := repository.NewProjectRepository(db)
	trackingCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.TrackingTTL, logger)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := tracking.NewHub()
	defer hub.Close()

	projectService := project.NewService(projectRepo, trackingCache, cfg.PublicBaseURL)
	projectHandler := project.NewHandler(projectService)

	milestoneService := milestone.NewService(projectRepo, hub, trackingCache)
	milestoneHandler := milestone.NewHandler(milestoneService)

	documentService := document.NewService(projectRepo, trackingCache)
	documentHandler := document.NewHandler(documentService)

	trackingService := tracking.NewService(projectRepo, trackingCache)
	trackingHandler := tracking.NewHandler(trackingService, hub, logger)

	activityService := activity.NewService(projectRepo)
	activityHandler := activity.NewHandler(activityService)

	dashboardService := dashboard.NewService(projectRepo)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// public customer-facing tracking
		trackingHandler.RegisterRoutes(v1)

		// admin-only management
		admin := v1.Group("/")
		admin.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			projectHandler.RegisterRoutes(admin)
			milestoneHandler.RegisterRoutes(admin)
			documentHandler.RegisterRoutes(admin)
			activityHandler.RegisterRoutes(admin)
			dashboardHandler.RegisterRoutes(admin)
		}
	}

	logger.Info("starting buildtrack api", zap.String("addr", cfg.ListenAddr), zap.String("env", cfg.AppEnv))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
