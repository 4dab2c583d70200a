package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-desk/complaints-api/api/swagger"
	"github.com/campus-desk/complaints-api/internal/handler"
	"github.com/campus-desk/complaints-api/internal/middleware"
	"github.com/campus-desk/complaints-api/internal/models"
	"github.com/campus-desk/complaints-api/internal/repository"
	"github.com/campus-desk/complaints-api/internal/service"
	"github.com/campus-desk/complaints-api/pkg/cache"
	"github.com/campus-desk/complaints-api/pkg/config"
	"github.com/campus-desk/complaints-api/pkg/database"
	"github.com/campus-desk/complaints-api/pkg/jobs"
	"github.com/campus-desk/complaints-api/pkg/logger"
	corsmiddleware "github.com/campus-desk/complaints-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-desk/complaints-api/pkg/middleware/requestid"
	"github.com/campus-desk/complaints-api/pkg/scheduler"
)

// @title Campus Desk Complaints API
// @version 1.0.0
// @description Student complaint management with rule-driven auto-escalation
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, analytics caching disabled", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	validate := validator.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories.
	complaintRepo := repository.NewComplaintRepository(db)
	ruleRepo := repository.NewEscalationRuleRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.JWT)
	notificationSvc := service.NewNotificationService(notificationRepo, jobs.QueueConfig{
		Workers:    cfg.Notifications.WorkerConcurrency,
		MaxRetries: cfg.Notifications.WorkerRetries,
		Logger:     logr,
	}, logr)
	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	complaintSvc := service.NewComplaintService(complaintRepo, historyRepo, notificationSvc, validate, logr)
	ruleSvc := service.NewRuleService(ruleRepo, validate, logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheRepo, cfg.Analytics, logr)
	escalationSvc := service.NewEscalationService(
		complaintRepo, ruleRepo, historyRepo, notificationSvc, cacheRepo, metricsSvc, cfg.Escalation, logr)

	// Background escalation scheduler.
	if cfg.Escalation.Enabled {
		runner := scheduler.NewRunner("escalation", cfg.Escalation.Interval, func(ctx context.Context, now time.Time) error {
			_, err := escalationSvc.RunPass(ctx, now)
			return err
		}, logr)
		runner.Start(ctx)
		defer runner.Stop()
	}

	// Handlers.
	complaintHandler := handler.NewComplaintHandler(complaintSvc)
	ruleHandler := handler.NewRuleHandler(ruleSvc)
	escalationHandler := handler.NewEscalationHandler(escalationSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))

	complaints := api.Group("/complaints")
	{
		complaints.GET("", complaintHandler.List)
		complaints.POST("", complaintHandler.Create)
		complaints.GET("/:id", complaintHandler.Get)
		complaints.GET("/:id/history", complaintHandler.History)
		complaints.POST("/:id/vote", complaintHandler.Vote)
		staffOnly := complaints.Group("", middleware.RequireRoles(models.RoleStaff, models.RoleAdmin))
		{
			staffOnly.PATCH("/:id/status", complaintHandler.UpdateStatus)
			staffOnly.PATCH("/:id/assign", complaintHandler.Assign)
			staffOnly.DELETE("/:id/escalation", complaintHandler.ResetEscalation)
		}
	}

	rules := api.Group("/escalation-rules", middleware.RequireRoles(models.RoleAdmin))
	{
		rules.GET("", ruleHandler.List)
		rules.POST("", ruleHandler.Create)
		rules.GET("/:id", ruleHandler.Get)
		rules.PUT("/:id", ruleHandler.Update)
		rules.DELETE("/:id", ruleHandler.Deactivate)
	}

	api.POST("/auto-escalate-complaints",
		middleware.RequireRoles(models.RoleService, models.RoleAdmin), escalationHandler.Run)

	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
	}

	if cfg.Analytics.Enabled {
		api.GET("/analytics/summary",
			middleware.RequireRoles(models.RoleStaff, models.RoleAdmin), analyticsHandler.Summary)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
