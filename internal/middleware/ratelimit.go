package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewRateLimiter builds an in-memory limiter from a formatted rate such as "120-M".
// An empty rate or "off" disables limiting and returns nil.
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	if formatted == "" || strings.EqualFold(formatted, "off") {
		return nil, nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit throttles requests per authenticated member, falling back to the client IP
// when no actor is present. A nil limiter lets every request through.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiterInstance == nil {
			c.Next()
			return
		}

		key := c.ClientIP()
		if actor, ok := GetActorFromContext(c); ok {
			key = "member:" + actor.MemberID
		}

		logger := GetLoggerFromCtx(c.Request.Context())
		context, err := limiterInstance.Get(c.Request.Context(), key)
		if err != nil {
			logger.Error("Failed to get rate limit context", slog.String("key", key), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(context.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(context.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(context.Reset, 10))

		if context.Reached {
			logger.Warn("Rate limit exceeded", slog.String("key", key), slog.Int64("limit", context.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}
