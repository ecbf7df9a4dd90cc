package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hazrinhakim/project-psm-figma/api/swagger"
	"github.com/hazrinhakim/project-psm-figma/internal/handler"
	"github.com/hazrinhakim/project-psm-figma/internal/middleware"
	"github.com/hazrinhakim/project-psm-figma/internal/models"
	"github.com/hazrinhakim/project-psm-figma/internal/repository"
	"github.com/hazrinhakim/project-psm-figma/internal/service"
	"github.com/hazrinhakim/project-psm-figma/pkg/cache"
	"github.com/hazrinhakim/project-psm-figma/pkg/config"
	"github.com/hazrinhakim/project-psm-figma/pkg/database"
	"github.com/hazrinhakim/project-psm-figma/pkg/logger"
	"github.com/hazrinhakim/project-psm-figma/pkg/mailer"
	corsmiddleware "github.com/hazrinhakim/project-psm-figma/pkg/middleware/cors"
	reqidmiddleware "github.com/hazrinhakim/project-psm-figma/pkg/middleware/requestid"
	"github.com/hazrinhakim/project-psm-figma/pkg/storage"
)

// @title ICAMS API
// @version 1.0.0
// @description ICT asset management system
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(userRepo, profileRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "icams-api",
	})

	mail := mailer.NewSendGridMailer(cfg.Invites, logr)
	userSvc := service.NewUserService(userRepo, profileRepo, mail, cfg.Invites.TokenTTL, validate, logr)

	reportSvc := service.NewReportService(assetRepo, maintenanceRepo, cacheSvc, cfg.Reports.CacheTTL, store, signer, logr)
	assetSvc := service.NewAssetService(assetRepo, categoryRepo, reportSvc, validate, logr)
	categorySvc := service.NewCategoryService(categoryRepo, validate, logr)
	maintenanceSvc := service.NewMaintenanceService(maintenanceRepo, assetRepo, profileRepo, notificationRepo, reportSvc, validate, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, cacheSvc, logr)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, validate, logr)
	qrSvc := service.NewQRService(assetRepo, cfg.QR.ImageSize, logr)
	dashboardSvc := service.NewDashboardService(assetRepo, categoryRepo, maintenanceRepo, feedbackRepo, userRepo, notificationRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	assetHandler := handler.NewAssetHandler(assetSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	qrHandler := handler.NewQRHandler(qrSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/activate", authHandler.Activate)

		authed := auth.Group("", middleware.JWT(authSvc))
		authed.POST("/logout", authHandler.Logout)
		authed.POST("/change-password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
	}

	// Export downloads authenticate via the signed token in the URL.
	api.GET("/reports/download/:token", reportHandler.Download)

	protected := api.Group("", middleware.JWT(authSvc))

	users := protected.Group("/users", middleware.AdminOnly())
	{
		users.GET("", userHandler.List)
		users.POST("/invite",
			middleware.Audit(userRepo, models.AuditActionUserInvite, "users"),
			userHandler.Invite)
		users.PUT("/:id",
			middleware.Audit(userRepo, models.AuditActionUserUpdate, "users"),
			userHandler.UpdateProfile)
		users.DELETE("/:id",
			middleware.Audit(userRepo, models.AuditActionUserDelete, "users"),
			userHandler.Delete)
	}

	assets := protected.Group("/assets")
	{
		assets.GET("", assetHandler.List)
		assets.GET("/mine", assetHandler.Mine)
		assets.GET("/:id", assetHandler.Get)
		assets.POST("", middleware.AdminOnly(),
			middleware.Audit(userRepo, models.AuditActionAssetCreate, "assets"),
			assetHandler.Create)
		assets.PUT("/:id", middleware.AdminOnly(),
			middleware.Audit(userRepo, models.AuditActionAssetUpdate, "assets"),
			assetHandler.Update)
		assets.DELETE("/:id", middleware.AdminOnly(),
			middleware.Audit(userRepo, models.AuditActionAssetDelete, "assets"),
			assetHandler.Delete)
		assets.POST("/:id/qr", middleware.AdminOnly(), qrHandler.Generate)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", middleware.AdminOnly(), categoryHandler.Create)
		categories.PUT("/:id", middleware.AdminOnly(), categoryHandler.Update)
		categories.DELETE("/:id", middleware.AdminOnly(), categoryHandler.Delete)
	}

	maintenance := protected.Group("/maintenance")
	{
		maintenance.GET("", middleware.AdminOnly(), maintenanceHandler.List)
		maintenance.GET("/mine", maintenanceHandler.Mine)
		maintenance.GET("/:id", maintenanceHandler.Get)
		maintenance.POST("", maintenanceHandler.Create)
		maintenance.PUT("/:id/status", middleware.AdminOnly(),
			middleware.Audit(userRepo, models.AuditActionMaintenanceStatus, "maintenance"),
			maintenanceHandler.UpdateStatus)
	}

	feedback := protected.Group("/feedback")
	{
		feedback.GET("", middleware.AdminOnly(), feedbackHandler.List)
		feedback.GET("/mine", feedbackHandler.Mine)
		feedback.POST("", feedbackHandler.Create)
		feedback.PUT("/:id/review", middleware.AdminOnly(), feedbackHandler.MarkReviewed)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", notificationHandler.SetRead)
	}

	protected.POST("/qr/scan", qrHandler.Scan)

	reports := protected.Group("/reports", middleware.AdminOnly())
	{
		reports.GET("/summary", reportHandler.Summary)
		reports.POST("/export", reportHandler.Export)
	}

	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("", dashboardHandler.Overview)
		dashboard.GET("/admin", middleware.AdminOnly(), dashboardHandler.Admin)
		dashboard.GET("/staff", dashboardHandler.Staff)
	}

	protected.GET("/metrics/snapshot", middleware.RequireRoles(models.RoleAdmin), metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
