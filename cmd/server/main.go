// Package main runs the polling platform HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pulse-polls/backend/config"
	"github.com/pulse-polls/backend/internal/admin"
	"github.com/pulse-polls/backend/internal/auth"
	"github.com/pulse-polls/backend/internal/comments"
	"github.com/pulse-polls/backend/internal/middleware"
	"github.com/pulse-polls/backend/internal/polls"
	"github.com/pulse-polls/backend/internal/realtime"
	"github.com/pulse-polls/backend/internal/results"
	"github.com/pulse-polls/backend/internal/votes"
	"github.com/pulse-polls/backend/internal/worker"
	"github.com/pulse-polls/backend/pkg/database"
	"github.com/pulse-polls/backend/pkg/queue"
	"github.com/pulse-polls/backend/pkg/redis"
	"github.com/pulse-polls/backend/pkg/response"
	"github.com/pulse-polls/backend/pkg/storage"
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
			ExportsBucket:        cfg.AWS.ExportsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	revoker := auth.NewRedisTokenRevoker(rdb.Client)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, revoker, logger)

	// Polls
	pollRepo := polls.NewRepository(pool)
	pollHandler := polls.NewHandler(pollRepo, hub, logger)

	// Votes
	voteRepo := votes.NewRepository(pool)
	voteHandler := votes.NewHandler(voteRepo, pollRepo, hub, logger)

	// Results (live tallies and archived snapshots)
	snapRepo := results.NewSnapshotRepository(pool)
	resultHandler := results.NewHandler(pollRepo, voteRepo, snapRepo, s3Client, logger)

	// Comments
	commentRepo := comments.NewRepository(pool)
	commentHandler := comments.NewHandler(commentRepo, hub, logger)

	// Admin role management
	adminRepo := admin.NewRepository(pool)
	adminHandler := admin.NewHandler(adminRepo, logger)

	// Expiry worker: enqueue snapshot jobs for expired polls and process them.
	jobQueue := queue.NewQueue(rdb.Client, logger)
	sweeper := worker.NewSweeper(pollRepo, jobQueue, time.Duration(cfg.Worker.SweepIntervalSec)*time.Second, logger)
	snapshotProcessor := worker.NewSnapshotProcessor(pollRepo, voteRepo, snapRepo, s3Client, jobQueue, redisPubSub, logger)

	jwtValidate := func(token string) (userID string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", err
		}
		return claims.UserID.String(), nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Public reads: poll discovery, results, archived snapshots, comment
	// threads. OptionalJWT lets the comment list annotate edit/delete rights.
	router.GET("/polls", pollHandler.List)
	router.GET("/polls/:id", pollHandler.GetByID)
	router.GET("/polls/:id/results", resultHandler.GetByPoll)
	router.GET("/polls/:id/snapshot", resultHandler.GetSnapshot)
	router.GET("/polls/:id/comments", middleware.OptionalJWT(jwtService, revoker), commentHandler.ListByPoll)

	// Voting is anonymous: no account needed to cast.
	router.POST("/polls/:id/votes", voteHandler.Cast)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService, revoker))
	{
		api.GET("/auth/me", authHandler.Me)
		api.POST("/auth/logout", authHandler.Logout)

		api.POST("/polls", pollHandler.Create)
		api.PATCH("/polls/:id", pollHandler.Update)
		api.DELETE("/polls/:id", pollHandler.Delete)

		api.POST("/polls/:id/comments", commentHandler.Create)
		api.PATCH("/comments/:id", commentHandler.Update)
		api.DELETE("/comments/:id", commentHandler.Delete)

		// Admin role management
		api.GET("/admin/users", middleware.RequireRole("admin"), adminHandler.ListUsers)
		api.POST("/admin/users/:id/promote", middleware.RequireRole("admin"), adminHandler.Promote)
		api.POST("/admin/users/:id/demote", middleware.RequireRole("admin"), adminHandler.Demote)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (expiry sweep + snapshot jobs)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go sweeper.Run(workerCtx)
	go snapshotProcessor.Run(workerCtx)
	logger.Info("expiry worker started",
		zap.Int("sweep_interval_sec", cfg.Worker.SweepIntervalSec))

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
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
