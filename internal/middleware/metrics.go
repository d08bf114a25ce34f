package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voicegenapp/api-voicegen/internal/metrics"
)

// MetricsMiddleware records request counts and latency per route
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		metrics.ObserveRequest(endpoint, c.Writer.Status(), time.Since(start))
	}
}
