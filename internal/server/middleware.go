package server

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request through logger, at warn level
// for client errors and error level for server errors
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.EscapedPath()
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		c.Next()

		status := c.Writer.Status()
		keyvals := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"client", c.ClientIP(),
		}
		if last := c.Errors.Last(); last != nil {
			keyvals = append(keyvals, "err", last.Error())
		}

		switch {
		case status >= 500:
			logger.Error("request", keyvals...)
		case status >= 400:
			logger.Warn("request", keyvals...)
		default:
			logger.Info("request", keyvals...)
		}
	}
}

// callerUser returns the basic auth user of the request, if any
func callerUser(c *gin.Context) string {
	user, _, ok := c.Request.BasicAuth()
	if !ok {
		return ""
	}
	return user
}
