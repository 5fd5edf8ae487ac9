package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildtrack/internal/pkg/response"
)

// RequestLogger logs every request and recovers from panics with a 500.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("panic recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", recovered),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error")
				c.Abort()
				return
			}

			fields := []zap.Field{
				zap.Int("status", c.Writer.Status()),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("client_ip", c.ClientIP()),
				zap.String("user_id", c.GetString("user_id")),
				zap.String("role", c.GetString("role")),
				zap.String("request_id", requestID(c)),
				zap.Duration("latency", time.Since(start)),
			}
			for _, err := range c.Errors {
				fields = append(fields, zap.String("error", err.Error()))
				if err.Meta != nil {
					fields = append(fields, zap.String("error_meta", fmt.Sprintf("%+v", err.Meta)))
				}
			}

			switch {
			case c.Writer.Status() >= http.StatusInternalServerError:
				log.Error("request", fields...)
			case len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
		}()

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
