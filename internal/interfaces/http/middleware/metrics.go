package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/prometheus"
)

// Metrics returns middleware that records request counts, durations, and
// in-flight gauges.  The route template (e.g. /api/v1/names/:hash) is used
// as the path label to keep cardinality bounded; unmatched routes fall back
// to a single "unmatched" label.
func Metrics(metrics *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPActiveRequests.WithLabelValues(method, path).Inc()
		start := time.Now()

		c.Next()

		metrics.HTTPActiveRequests.WithLabelValues(method, path).Dec()
		prometheus.RecordHTTPRequest(metrics, method, path, c.Writer.Status(), time.Since(start))
	}
}
