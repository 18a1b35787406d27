package middleware

import (
	"net/http"
	"sync"
	"time"

	"covenant/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Per-client budget: 120 requests a minute with a short burst allowance,
// enough for a wizard session's field-by-field traffic.
const (
	requestsPerMinute = 120
	burstSize         = 30
)

var (
	limitersMu sync.Mutex
	limiters   = make(map[string]*rate.Limiter)
)

func limiterFor(ip string) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	l, ok := limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), burstSize)
		limiters[ip] = l
	}
	return l
}

// RateLimitMiddleware throttles requests per client IP.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !limiterFor(ip).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Muitas requisições. Tente novamente em instantes."})
			return
		}
		c.Next()
	}
}
