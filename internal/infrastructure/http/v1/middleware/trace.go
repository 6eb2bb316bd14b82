package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "bistro/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace puts request and trace ids on the request context and echoes them back.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := appctx.Resolve(c.Request.Context(), c.GetHeader(HeaderRequestID), c.GetHeader(HeaderTraceID))
		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), tc))

		c.Header(HeaderRequestID, tc.RequestID)
		c.Header(HeaderTraceID, tc.TraceID)

		c.Next()
	}
}
