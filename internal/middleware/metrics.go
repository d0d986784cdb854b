package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hilamalka1/onboard-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics observes latency and status per route template. Paths in skip (probes, the scrape
// endpoint itself) are not recorded.
func Metrics(metricsSvc *service.MetricsService, skip ...string) gin.HandlerFunc {
	ignored := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		ignored[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		if _, ok := ignored[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
