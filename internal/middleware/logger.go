package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"artclub/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request with latency and recovers from panics.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.WithFields(requestFields(c, start)).
					WithField("stack", string(debug.Stack())).
					Errorf("panic recovered: %v", recovered)

				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal Server Error",
					},
				})
				c.Abort()
				return
			}

			fields := requestFields(c, start)
			switch {
			case c.Writer.Status() >= http.StatusInternalServerError:
				logger.WithFields(fields).Error("request failed")
			case len(c.Errors) > 0:
				logger.WithFields(fields).WithField("errors", c.Errors.String()).Warn("request completed with errors")
			default:
				logger.WithFields(fields).Info("request completed")
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time) logrus.Fields {
	fields := logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
		"latency":    fmt.Sprintf("%v", time.Since(start)),
		"request_id": requestID(c),
	}
	if acc, err := session.FromContext(c); err == nil {
		fields["subject"] = acc.Subject
		fields["role"] = acc.Role
	}
	return fields
}

func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = c.GetHeader("X-Request-Id")
	}
	return id
}
