package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/courseapi/course-service/pkg/logger"
	"github.com/courseapi/course-service/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "courses:rl"

// fixedWindow counts requests per client and route in Redis so every
// replica shares one budget. A window allows floor(rps*window)+burst hits.
type fixedWindow struct {
	client  *redis.Client
	window  int64
	allowed int64
}

// hit records one request and returns the count so far in the window and
// the seconds left until it resets.
func (f *fixedWindow) hit(ctx context.Context, client, route string, now time.Time) (int64, int64, error) {
	bucket := now.Unix() / f.window
	key := fmt.Sprintf("%s:%s:%s:%d", redisKeyPrefix, client, route, bucket)

	var incr *redis.IntCmd
	_, err := f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Duration(f.window+1)*time.Second)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return incr.Val(), (bucket+1)*f.window - now.Unix(), nil
}

// RedisRateLimitMiddleware limits each client IP per route with a fixed
// window kept in Redis. A nil client falls back to the in-process limiter.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	secs := int64(window.Seconds())
	if secs <= 0 {
		secs = 1
	}
	fw := &fixedWindow{client: client, window: secs, allowed: int64(rps*float64(secs)) + int64(burst)}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		count, reset, err := fw.hit(c.Request.Context(), clientKey(c), route, time.Now())
		if err != nil {
			logger.Errorf("rate limit check failed for %s: %v", route, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			return
		}

		remaining := fw.allowed - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(fw.allowed, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if count > fw.allowed {
			c.Header("Retry-After", strconv.FormatInt(reset, 10))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
