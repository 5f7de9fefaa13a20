package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/courseapi/course-service/internal/config"
	"github.com/courseapi/course-service/internal/server"
	"github.com/courseapi/course-service/pkg/logger"
)

func main() {
	// LOG_LEVEL is read again from config below; this covers config errors
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	logger.Infof("config loaded: env=%s mongo=%v redis=%v minio=%v rate_limit=%v",
		cfg.Server.Environment, cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to start: %v", err)
	}
	if err := srv.Run(ctx); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
