package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"groupnet/memberhub/internal/metrics"
)

// Metrics records one observation per request, labelled by route template
// so path parameters do not inflate cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
