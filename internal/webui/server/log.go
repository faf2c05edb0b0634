package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"aashub/internal/system"
)

// requestLogger writes one access log line per request to the shared
// logger. Server errors log at error level, client errors at warn.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"dur", time.Since(start).Round(time.Microsecond),
			"ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			system.Logger.Error("request", kv...)
		case status >= 400:
			system.Logger.Warn("request", kv...)
		default:
			system.Logger.Info("request", kv...)
		}
	}
}
