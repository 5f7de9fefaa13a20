package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/courseapi/course-service/internal/config"
	"github.com/courseapi/course-service/internal/course/service"
	"github.com/courseapi/course-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Server.ShutdownTimeout = time.Second
	return cfg
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_EndToEnd(t *testing.T) {
	r := NewRouter(testConfig(), Deps{Courses: service.NewMemoryService()})

	w := serve(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Hello World!", w.Body.String())
	require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(r, http.MethodPost, "/api/v1/courses", `{"name":"course4"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":4,"name":"course4"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/v1/courses/4", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	// snapshot route is absent without object storage
	w = serve(r, http.MethodPost, "/api/v1/courses/snapshots", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RedisRateLimit(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	rc := redis.NewClient(&redis.Options{Addr: m.Addr()})

	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0, Burst: 2, UseRedis: true, WindowSeconds: 60}
	r := NewRouter(cfg, Deps{Courses: service.NewMemoryService(), Redis: rc})

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
	var limited bool
	for i := 0; i < 5; i++ {
		if serve(r, http.MethodGet, "/health", "").Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited, "expected the redis limiter to reject within the window")
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig()

	srv, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
