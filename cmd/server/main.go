// Package main runs the assembly registration HTTP server with the live
// attendance WebSocket board and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agora-assembly/backend/config"
	"github.com/agora-assembly/backend/internal/assemblies"
	"github.com/agora-assembly/backend/internal/attendance"
	"github.com/agora-assembly/backend/internal/auth"
	"github.com/agora-assembly/backend/internal/metrics"
	"github.com/agora-assembly/backend/internal/middleware"
	"github.com/agora-assembly/backend/internal/modalities"
	"github.com/agora-assembly/backend/internal/notifications"
	"github.com/agora-assembly/backend/internal/realtime"
	"github.com/agora-assembly/backend/internal/registrations"
	"github.com/agora-assembly/backend/internal/roster"
	"github.com/agora-assembly/backend/internal/settings"
	"github.com/agora-assembly/backend/pkg/database"
	"github.com/agora-assembly/backend/pkg/queue"
	"github.com/agora-assembly/backend/pkg/redis"
	"github.com/agora-assembly/backend/pkg/response"
	"github.com/agora-assembly/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ReceiptsBucket:       cfg.AWS.ReceiptsBucket,
			DocumentsBucket:      cfg.AWS.DocumentsBucket,
			ArchiveBucket:        cfg.AWS.ArchiveBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	m := metrics.New()

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Assemblies and modalities
	assemblyRepo := assemblies.NewRepository(pool)
	assemblyHandler := assemblies.NewHandler(assemblyRepo, jobQueue, logger)
	modalityRepo := modalities.NewRepository(pool)
	modalityHandler := modalities.NewHandler(modalityRepo, logger)

	// Roster (imported by the external collaborator; read by eligibility)
	rosterRepo := roster.NewRepository(pool)
	rosterHandler := roster.NewHandler(rosterRepo, logger)

	// Settings singleton
	settingsRepo := settings.NewRepository(pool)
	settingsHandler := settings.NewHandler(settingsRepo, s3Client, logger)

	// Registrations
	regStore := registrations.NewPostgresStore(pool)
	regDeps := registrations.Deps{
		Store:      regStore,
		Assemblies: assemblyRepo,
		Modalities: modalityRepo,
		Roster:     rosterRepo,
		Settings:   settingsRepo,
		Notifier:   jobQueue,
		Metrics:    m,
		Logger:     logger,
	}
	if s3Client != nil {
		regDeps.Receipts = s3Client
	}
	regService := registrations.NewService(regDeps)
	regHandler := registrations.NewHandler(regService, s3Client, logger)

	// Attendance board
	attendanceRepo := attendance.NewRepository(pool)
	attendanceService := attendance.NewService(attendanceRepo, hub, m, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)

	// Notification history
	notificationRepo := notifications.NewRepository(pool)
	notificationHandler := notifications.NewHandler(notificationRepo, jobQueue, logger)

	jwtValidate := func(token string) (userID, role string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID.String(), claims.Role, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health and metrics
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/signup", authHandler.Signup)
	}

	// Code of conduct download (public: linked from the registration form)
	router.GET("/settings/code-of-conduct", settingsHandler.CodeOfConductURL)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)

		// Settings
		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", middleware.RequireRole("admin"), settingsHandler.Update)
		api.POST("/settings/code-of-conduct", middleware.RequireRole("admin"), settingsHandler.UploadCodeOfConduct)

		// Assemblies
		api.GET("/assemblies", assemblyHandler.List)
		api.POST("/assemblies", middleware.RequireRole("admin"), assemblyHandler.Create)
		api.GET("/assemblies/:id", assemblyHandler.GetByID)
		api.PATCH("/assemblies/:id", middleware.RequireRole("admin"), assemblyHandler.Update)
		api.PATCH("/assemblies/:id/registration", middleware.RequireRole("admin"), assemblyHandler.SetRegistrationOpen)
		api.POST("/assemblies/:id/archive", middleware.RequireRole("admin"), assemblyHandler.Archive)
		api.DELETE("/assemblies/:id", middleware.RequireRole("admin"), assemblyHandler.Delete)

		// Modalities
		api.GET("/assemblies/:id/modalities", modalityHandler.ListByAssembly)
		api.POST("/assemblies/:id/modalities", middleware.RequireRole("admin"), modalityHandler.Create)
		api.PATCH("/modalities/:id", middleware.RequireRole("admin"), modalityHandler.Update)
		api.DELETE("/modalities/:id", middleware.RequireRole("admin"), modalityHandler.Delete)

		// Roster
		api.GET("/assemblies/:id/roster", rosterHandler.ListByAssembly)
		api.PUT("/assemblies/:id/roster", middleware.RequireRole("admin"), rosterHandler.Upsert)

		// Registrations
		api.POST("/assemblies/:id/registrations", regHandler.Register)
		api.POST("/assemblies/:id/registrations/form", regHandler.CreateFromForm)
		api.GET("/assemblies/:id/registrations", middleware.RequireRole("admin"), regHandler.List)
		api.GET("/assemblies/:id/registrations/me", regHandler.MyStatus)
		api.POST("/assemblies/:id/registrations/cancel", regHandler.Cancel)
		api.GET("/registrations/:id", middleware.RequireRole("admin"), regHandler.GetByID)
		api.POST("/registrations/:id/approve", middleware.RequireRole("admin"), regHandler.Approve)
		api.POST("/registrations/:id/reject", middleware.RequireRole("admin"), regHandler.Reject)
		api.POST("/bulk/registrations/approve", middleware.RequireRole("admin"), regHandler.BulkApprove)
		api.POST("/bulk/registrations/reject", middleware.RequireRole("admin"), regHandler.BulkReject)
		api.POST("/bulk/registrations/delete", middleware.RequireRole("admin"), regHandler.BulkDelete)
		api.POST("/registrations/:id/receipt", regHandler.UploadReceipt)
		api.GET("/registrations/:id/receipt", middleware.RequireRole("admin"), regHandler.ReceiptURL)
		api.PATCH("/registrations/:id/exemption", regHandler.UpdateExemption)
		api.PATCH("/registrations/:id/modality", regHandler.ChangeModality)
		api.POST("/registrations/:id/resubmit", regHandler.Resubmit)
		api.POST("/registrations/:id/attendance", middleware.RequireRole("admin"), regHandler.MarkAttendance)
		api.DELETE("/registrations/:id", middleware.RequireRole("admin"), regHandler.Delete)

		// Attendance board
		api.GET("/assemblies/:id/attendance", attendanceHandler.List)
		api.GET("/assemblies/:id/attendance/quorum", attendanceHandler.Quorum)
		api.POST("/assemblies/:id/attendance", middleware.RequireRole("admin"), attendanceHandler.Update)
		api.DELETE("/assemblies/:id/attendance", middleware.RequireRole("admin"), attendanceHandler.Reset)

		// Notification history
		api.GET("/assemblies/:id/notifications", middleware.RequireRole("admin"), notificationHandler.ListByAssembly)
		api.POST("/notifications/:id/resend", middleware.RequireRole("admin"), notificationHandler.Resend)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
