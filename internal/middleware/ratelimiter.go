package middleware

import (
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles requests per client IP. With a redis client the
// budget is shared across instances, otherwise it is kept in memory.
func RateLimiter(rdb *redis.Client, perSecond uint) gin.HandlerFunc {
	var store ratelimit.Store
	if rdb != nil {
		store = ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: rdb,
			Rate:        time.Second,
			Limit:       perSecond,
		})
	} else {
		store = ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
			Rate:  time.Second,
			Limit: perSecond,
		})
	}

	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			c.String(429, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
