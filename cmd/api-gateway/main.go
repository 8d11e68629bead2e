package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/mcu-dashboard-api/api/swagger"
	"github.com/noah-isme/mcu-dashboard-api/internal/handler"
	"github.com/noah-isme/mcu-dashboard-api/internal/middleware"
	"github.com/noah-isme/mcu-dashboard-api/internal/repository"
	"github.com/noah-isme/mcu-dashboard-api/internal/service"
	"github.com/noah-isme/mcu-dashboard-api/pkg/cache"
	"github.com/noah-isme/mcu-dashboard-api/pkg/config"
	"github.com/noah-isme/mcu-dashboard-api/pkg/database"
	"github.com/noah-isme/mcu-dashboard-api/pkg/jobs"
	"github.com/noah-isme/mcu-dashboard-api/pkg/logger"
	"github.com/noah-isme/mcu-dashboard-api/pkg/mailer"
	corsmiddleware "github.com/noah-isme/mcu-dashboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mcu-dashboard-api/pkg/middleware/requestid"
	"github.com/noah-isme/mcu-dashboard-api/pkg/storage"
)

// @title MCU Dashboard API
// @version 1.0.0
// @description Employee Medical Check-Up record dashboard
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard caching disabled", "error", err)
		redisClient = nil
	}

	documentStore, err := storage.NewDocumentStore(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document storage", "error", err)
	}
	exportStorage, err := storage.NewExportStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	mirror := storage.NewRemoteMirror(cfg.Mirror.Owner, cfg.Mirror.Repo, cfg.Mirror.Branch)
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	employeeRepo := repository.NewEmployeeRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)
	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		BootstrapEmail:     cfg.Auth.BootstrapEmail,
		BootstrapPassword:  cfg.Auth.BootstrapPassword,
		BootstrapName:      cfg.Auth.BootstrapName,
	})
	if err := authSvc.Bootstrap(ctx); err != nil {
		logr.Sugar().Warnw("bootstrap account setup failed", "error", err)
	}

	documentSvc := service.NewDocumentService(documentStore, mirror, logr, service.DocumentServiceConfig{
		MaxFileSize:  cfg.Documents.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Documents.AllowedMIMEs,
	})
	employeeSvc := service.NewEmployeeService(employeeRepo, historyRepo, documentSvc, cacheSvc, validate, logr)
	historySvc := service.NewHistoryService(historyRepo, employeeRepo, documentSvc, cacheSvc, validate, logr)
	reminderSvc := service.NewReminderService(employeeRepo, mailer.New(cfg.SMTP), logr, cfg.Reminders.Enabled)
	dashboardSvc := service.NewDashboardService(statsRepo, employeeSvc, reminderSvc, cacheSvc, metricsSvc, logr, service.DashboardServiceConfig{
		CacheTTL:         cfg.Dashboard.CacheTTL,
		RefreshOnSummary: cfg.Reminders.SweepOnSummary,
		SweepOnSummary:   cfg.Reminders.SweepOnSummary,
	})

	exportSvc := service.NewExportService(employeeRepo, historyRepo, mirror, exportStorage, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)
	exportWorker := service.NewExportWorker(exportJobRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
	exportQueue := jobs.NewQueue("exports", exportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportQueue.Start(ctx)
	defer exportQueue.Stop()

	exportJobSvc := service.NewExportJobService(exportJobRepo, exportQueue, exportSvc, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})
	exportJobSvc.RecoverPendingJobs(ctx)
	exportJobSvc.StartCleanup(ctx)

	authHandler := handler.NewAuthHandler(authSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	historyHandler := handler.NewHistoryHandler(historySvc)
	documentHandler := handler.NewDocumentHandler(documentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportJobSvc, exportSvc)
	reminderHandler := handler.NewReminderHandler(reminderSvc)
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

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.PUT("/auth/password", authHandler.ChangePassword)
	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/employees", employeeHandler.List)
	authed.POST("/employees", employeeHandler.Create)
	authed.GET("/employees/positions", employeeHandler.Positions)
	authed.GET("/employees/:nik", employeeHandler.Get)
	authed.PUT("/employees/:nik", employeeHandler.Update)
	authed.DELETE("/employees/:nik", employeeHandler.Delete)

	authed.GET("/employees/:nik/history", historyHandler.List)
	authed.POST("/employees/:nik/history", historyHandler.Create)
	authed.DELETE("/employees/:nik/history/:id", historyHandler.Delete)

	authed.GET("/employees/:nik/documents/:filename", documentHandler.Download)

	authed.GET("/dashboard/summary", dashboardHandler.Summary)
	authed.GET("/metrics/summary", metricsHandler.Summary)

	authed.POST("/export", exportHandler.Create)
	authed.GET("/export/preview", exportHandler.Preview)
	authed.GET("/export/:id", exportHandler.Status)
	api.GET("/export/download/:token", middleware.OptionalJWT(authSvc), exportHandler.Download)

	authed.POST("/reminders/sweep", reminderHandler.Sweep)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
