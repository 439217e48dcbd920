package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"resizeit/internal/config"
	"resizeit/internal/models"
	"resizeit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// clientLimiter pairs a token bucket with its last use for cleanup
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token bucket
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	config   *config.Config

	cleanup     *time.Ticker
	stopCleanup chan struct{}
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	rl := &RateLimiter{
		limiters:    make(map[string]*clientLimiter),
		config:      cfg,
		cleanup:     time.NewTicker(10 * time.Minute),
		stopCleanup: make(chan struct{}),
	}
	go rl.runCleanup()
	return rl
}

// Middleware returns the Gin handler enforcing the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.RateLimit.Max <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		limiter := rl.getLimiter(clientIP)

		if !limiter.Allow() {
			rl.handleExceeded(c, clientIP)
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.RateLimit.Max))
		c.Next()
	}
}

func (rl *RateLimiter) getLimiter(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, exists := rl.limiters[clientIP]
	if !exists {
		perSecond := rate.Limit(float64(rl.config.RateLimit.Max) / rl.config.RateLimit.Window.Seconds())
		cl = &clientLimiter{limiter: rate.NewLimiter(perSecond, rl.config.RateLimit.Max)}
		rl.limiters[clientIP] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) handleExceeded(c *gin.Context, clientIP string) {
	logger.WarnWithContext(c.Request.Context(), "Rate limit exceeded",
		zap.String("client_ip", clientIP),
		zap.Int("limit", rl.config.RateLimit.Max),
		zap.String("request_id", c.GetString("request_id")))

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.RateLimit.Max))
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("Retry-After", fmt.Sprintf("%d", int(rl.config.RateLimit.Window.Seconds())))

	c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
		Message: fmt.Sprintf("Too many requests. Limit: %d requests per %s", rl.config.RateLimit.Max, rl.config.RateLimit.Window),
	})
	c.Abort()
}

func (rl *RateLimiter) runCleanup() {
	for {
		select {
		case <-rl.cleanup.C:
			rl.dropIdleLimiters()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) dropIdleLimiters() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-30 * time.Minute)
	dropped := 0
	for ip, cl := range rl.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.limiters, ip)
			dropped++
		}
	}

	if dropped > 0 {
		logger.Debug("Cleaned up idle rate limiters",
			zap.Int("dropped", dropped),
			zap.Int("remaining", len(rl.limiters)))
	}
}

// Stop halts the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.cleanup.Stop()
	close(rl.stopCleanup)
}
