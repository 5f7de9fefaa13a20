package middleware

import (
	"strconv"
	"time"

	"github.com/courseapi/course-service/pkg/logger"
	"github.com/courseapi/course-service/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger writes one structured line per request, at warn for 4xx
// and error for 5xx, and counts the request by route and status class.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status/100)+"xx").Inc()

		l := logger.L()
		var e *zerolog.Event
		switch {
		case status >= 500:
			e = l.Error()
			if err := c.Errors.Last(); err != nil {
				e = e.Err(err)
			}
		case status >= 400:
			e = l.Warn()
		default:
			e = l.Info()
		}
		if id := GetRequestID(c); id != "" {
			e = e.Str("request_id", id)
		}
		e.Dur("latency", time.Since(start)).
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Msg("API")
	}
}
