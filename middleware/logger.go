package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	contextLogger   = "logger"
	RequestIDHeader = "X-Request-ID"
)

// RequestLogger tags every request with an id and logs it once it has been
// served. Handlers reach the request-scoped entry through Logger.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(contextLogger, entry)

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"status":     status,
			"latency":    time.Since(start).String(),
			"remoteAddr": c.ClientIP(),
			"userAgent":  c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		e := Logger(c).WithFields(fields)
		switch {
		case status >= 500:
			e.Error("request failed")
		case status >= 400:
			e.Warn("request rejected")
		default:
			e.Info("request served")
		}
	}
}

// Logger returns the request-scoped entry, or a standalone one when the
// request did not pass through RequestLogger.
func Logger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(contextLogger); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	entry := logrus.NewEntry(logrus.StandardLogger())
	c.Set(contextLogger, entry)
	return entry
}
