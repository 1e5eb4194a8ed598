package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an IP may stay silent before its bucket is
// dropped. A bucket refills within a minute, so evicting it loses nothing.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	every     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows perMinute requests per IP with an equal burst.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 120
	}
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		every:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.sweep(now)
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.every, l.burst)}
		l.visitors[ip] = v
	}
	v.seen = now
	return v.lim
}

// sweep drops idle visitors. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.seen) >= limiterIdleTTL {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

// RateLimitMiddleware rejects requests over the per-IP budget with 429.
func RateLimitMiddleware(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.limiter(ip).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
