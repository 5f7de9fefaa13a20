package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Greeting is the body of GET /.
const Greeting = "Hello World!"

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// RegisterSystemRoutes registers the root greeting plus liveness and readiness.
// /ready returns 503 when any registered dependency fails its ping.
func RegisterSystemRoutes(r *gin.Engine, started time.Time, deps map[string]Pinger) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Greeting)
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		status := map[string]bool{}
		for name, dep := range deps {
			ok := dep.Ping(ctx) == nil
			status[name] = ok
			ready = ready && ok
		}
		uptime := time.Since(started).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": status, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": status, "uptime": uptime})
	})
}
