package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"bistro/pkg/logger"
)

// Logger logs each request with timing and status. Health probes log at debug.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		l := log.WithContext(c.Request.Context())
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		switch {
		case c.Writer.Status() >= 500:
			l.Errorw("http request", fields...)
		case len(path) >= 7 && path[:7] == "/health":
			l.Debugw("http request", fields...)
		default:
			l.Infow("http request", fields...)
		}
	}
}
