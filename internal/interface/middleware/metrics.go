package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-cache-api/internal/metrics"
)

// Metrics counts requests by method, matched route template and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
	}
}
