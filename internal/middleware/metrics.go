package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver receives one observation per served request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// pathsToSkip contains paths that should not be tracked
var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MetricsMiddleware records request counts and latency by matched route template,
// so ids in paths do not explode label cardinality.
func MetricsMiddleware(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if observer == nil || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
