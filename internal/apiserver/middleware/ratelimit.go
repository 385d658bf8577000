package middleware

import (
	"sync"
	"time"

	"github.com/eliteshop/storefront/internal/common/config"
	"github.com/eliteshop/storefront/internal/common/errorx"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	mutex    sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func NewRateLimiter(r rate.Limit, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     r,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewRateLimiterFromConfig returns nil when limiting is disabled
func NewRateLimiterFromConfig(cfg config.RateLimitConfig) *RateLimiter {
	if !cfg.Enabled {
		return nil
	}
	return NewRateLimiter(rate.Limit(cfg.RPS), cfg.Burst, limiterTTL)
}

// Middleware answers 429 once a client spends its burst. A nil limiter lets
// everything through.
func (l *RateLimiter) Middleware(eh *errorx.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		if !l.getLimiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			eh.HandleError(c, errorx.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	if limiter, ok := l.limiters[ip]; ok {
		l.lastSeen[ip] = now
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[ip] = limiter
	l.lastSeen[ip] = now
	l.cleanup(now)
	return limiter
}

func (l *RateLimiter) cleanup(now time.Time) {
	if l.ttl == 0 {
		return
	}
	cutoff := now.Add(-l.ttl)
	for ip, last := range l.lastSeen {
		if last.Before(cutoff) {
			delete(l.lastSeen, ip)
			delete(l.limiters, ip)
		}
	}
}
