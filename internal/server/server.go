// Package server wires configuration, stores and routes into a running
// HTTP server and owns its shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/courseapi/course-service/handlers"
	"github.com/courseapi/course-service/internal/config"
	"github.com/courseapi/course-service/internal/course/handler"
	"github.com/courseapi/course-service/internal/course/service"
	"github.com/courseapi/course-service/internal/course/snapshot"
	"github.com/courseapi/course-service/internal/database"
	"github.com/courseapi/course-service/internal/storage"
	"github.com/courseapi/course-service/pkg/logger"
	"github.com/courseapi/course-service/pkg/metrics"
	"github.com/courseapi/course-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps are the runtime collaborators the router needs. Optional ones are nil
// when not configured.
type Deps struct {
	Courses   service.Service
	Redis     *redis.Client
	Snapshots handler.Exporter
	Ready     map[string]handlers.Pinger
	Started   time.Time
}

// NewRouter builds the gin engine: global middleware, course API, system
// endpoints, docs and metrics.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.CORS())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && deps.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(deps.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	started := deps.Started
	if started.IsZero() {
		started = time.Now()
	}
	handlers.RegisterSystemRoutes(r, started, deps.Ready)
	handlers.RegisterSwagger(r)
	handler.RegisterCourseRoutes(r, deps.Courses)
	if deps.Snapshots != nil {
		handler.RegisterSnapshotRoutes(r, deps.Snapshots)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Server is the application container.
type Server struct {
	cfg     *config.Config
	http    *http.Server
	closers []func(context.Context) error
}

// New connects the configured backends and prepares the HTTP server.
// Mongo, Redis and MinIO are optional; a failed optional backend is logged
// and skipped, except Mongo, whose failure aborts startup.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	s := &Server{cfg: cfg}
	deps := Deps{Ready: map[string]handlers.Pinger{}, Started: time.Now()}

	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)
		svc, err := service.NewMongoService(ctx, client.Database(cfg.MongoDB.Database).Collection("courses"))
		if err != nil {
			_ = s.close(context.Background())
			return nil, fmt.Errorf("init mongo course store: %w", err)
		}
		deps.Courses = svc
		deps.Ready["store"] = handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })
		logger.Infof("using MongoDB course store (database=%s)", cfg.MongoDB.Database)
	} else {
		deps.Courses = service.NewMemoryService()
		logger.Infof("using in-memory course store")
	}

	if addr := cfg.Redis.Addr(); addr != "" {
		rc := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis: %s", addr)
		}
		// keep the client either way: the readiness probe reports it
		deps.Redis = rc
		deps.Ready["redis"] = handlers.PingFunc(func(ctx context.Context) error { return rc.Ping(ctx).Err() })
		s.closers = append(s.closers, func(context.Context) error { return rc.Close() })
	}

	if cfg.MinIO.Endpoint != "" {
		st, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("snapshot export disabled: %v", err)
		} else {
			deps.Snapshots = snapshot.NewExporter(st, deps.Courses, 15*time.Minute)
			deps.Ready["storage"] = st
			logger.Infof("snapshot export enabled (bucket=%s)", cfg.MinIO.Bucket)
		}
	}

	s.http = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      NewRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s...", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = s.close(context.Background())
		if err == nil {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	err := s.http.Shutdown(shutdownCtx)
	if cerr := s.close(shutdownCtx); err == nil {
		err = cerr
	}
	return err
}

func (s *Server) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
