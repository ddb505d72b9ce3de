package middleware

import (
	"strings"
	"time"

	"microblog-backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录请求数量和耗时，按路由模板聚合
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		done := metrics.RequestStarted()
		defer done()

		start := time.Now()
		c.Next()

		metrics.RecordRequest(strings.ToUpper(c.Request.Method), c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
