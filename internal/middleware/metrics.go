package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/service"
)

// Metrics records request count, latency and in-flight requests per route
// template. Websocket feeds are long lived, so they only move the open
// connection gauge. Scrapes of /metrics are not counted.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			done := metricsSvc.TrackFeed(path)
			defer done()
			c.Next()
			return
		}

		done := metricsSvc.TrackInFlight()
		start := time.Now()
		c.Next()
		done()
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
