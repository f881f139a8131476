package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Cinfob09/Stats.cinfob/config"
	"github.com/Cinfob09/Stats.cinfob/utils"
)

type ipBucket struct {
	limiter *rate.Limiter
	expires time.Time
}

var (
	buckets   = map[string]*ipBucket{}
	bucketsMu sync.Mutex
)

const bucketIdleTTL = 5 * time.Minute

// RateLimit applies a per-client-IP token bucket. The per-minute budget
// comes from configuration.
func RateLimit() gin.HandlerFunc {
	perMinute := config.Get().RateLimitPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute / 2
	if burst < 1 {
		burst = 1
	}

	return func(ctx *gin.Context) {
		if !bucketFor(ctx.ClientIP(), limit, burst).Allow() {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func bucketFor(ip string, limit rate.Limit, burst int) *rate.Limiter {
	bucketsMu.Lock()
	defer bucketsMu.Unlock()

	now := time.Now()
	for key, b := range buckets {
		if now.After(b.expires) {
			delete(buckets, key)
		}
	}

	b, ok := buckets[ip]
	if !ok {
		b = &ipBucket{limiter: rate.NewLimiter(limit, burst)}
		buckets[ip] = b
	}
	b.expires = now.Add(bucketIdleTTL)
	return b.limiter
}
