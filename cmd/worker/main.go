// Package main runs the standalone expiry worker (sweep expired polls,
// finalize snapshots, upload CSV exports).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pulse-polls/backend/config"
	"github.com/pulse-polls/backend/internal/polls"
	"github.com/pulse-polls/backend/internal/realtime"
	"github.com/pulse-polls/backend/internal/results"
	"github.com/pulse-polls/backend/internal/votes"
	"github.com/pulse-polls/backend/internal/worker"
	"github.com/pulse-polls/backend/pkg/database"
	"github.com/pulse-polls/backend/pkg/queue"
	"github.com/pulse-polls/backend/pkg/redis"
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
			logger.Warn("s3 disabled, exports skipped", zap.Error(err))
		}
	}

	pollRepo := polls.NewRepository(pool)
	voteRepo := votes.NewRepository(pool)
	snapRepo := results.NewSnapshotRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)

	sweeper := worker.NewSweeper(pollRepo, jobQueue, time.Duration(cfg.Worker.SweepIntervalSec)*time.Second, logger)
	processor := worker.NewSnapshotProcessor(pollRepo, voteRepo, snapRepo, s3Client, jobQueue, redisPubSub, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sweeper.Run(workerCtx)
	go processor.Run(workerCtx)
	logger.Info("worker started", zap.Int("sweep_interval_sec", cfg.Worker.SweepIntervalSec))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
