package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/AnTengye/legalintel/config"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window counter per client key.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*counter
	rate    int           // requests per window
	window  time.Duration // time window
	now     func() time.Time
}

type counter struct {
	start time.Time
	count int
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*counter),
		rate:    rate,
		window:  window,
		now:     time.Now,
	}
}

// Allow counts one request for key and reports whether it fits in the
// current window, the requests left, and when the window resets.
func (l *RateLimiter) Allow(key string) (bool, int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &counter{start: now}
		l.windows[key] = w
		l.sweep(now)
	}
	reset := w.start.Add(l.window)

	if w.count >= l.rate {
		return false, 0, reset
	}
	w.count++
	return true, l.rate - w.count, reset
}

// sweep drops expired windows. Must be called with lock held
func (l *RateLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, k)
		}
	}
}

// RateLimit middleware limits requests per client IP
func RateLimit(cfg *config.RateLimitConfig) gin.HandlerFunc {
	limiter := NewRateLimiter(cfg.Requests, time.Duration(cfg.WindowSeconds)*time.Second)
	return limiter.Middleware()
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		ok, remaining, reset := l.Allow(clientIP)
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			retry := int(math.Ceil(reset.Sub(l.now()).Seconds()))
			if retry < 1 {
				retry = 1
			}
			slog.Warn("rate limit exceeded",
				"client_ip", clientIP,
				"request_id", GetRequestID(c),
			)

			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
