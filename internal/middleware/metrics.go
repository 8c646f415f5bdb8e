package middleware

import (
	"time"

	"placefinder-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latency by route pattern
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Use the route pattern rather than the raw path to bound cardinality
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
