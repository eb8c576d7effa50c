package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jams-project/jams/pkg/logging"
)

const requestIDHeader = "x-request-id"
const requestIDKey = "requestID"

// requestLogger attaches a per-request logger (tagged with a request ID,
// generating one when the caller didn't send one) to the gin context, and
// logs the outcome once the handler returns.
func requestLogger(base logging.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, reqID)

		reqLogger := base.WithField("request_id", reqID).WithField("path", c.Request.URL.Path)
		c.Set(requestIDKey, reqLogger)

		start := time.Now()
		c.Next()
		reqLogger.
			WithField("status", c.Writer.Status()).
			WithField("latency", time.Since(start).String()).
			Info("handled request")
	}
}

func loggerFrom(c *gin.Context) logging.Interface {
	if v, ok := c.Get(requestIDKey); ok {
		if l, ok := v.(logging.Interface); ok {
			return l
		}
	}
	return nil
}
