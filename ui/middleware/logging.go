// Package middleware holds the gin middleware of the web UI.
package middleware

import (
	"time"

	"chicuadrado/internal"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request at DEBUG level, and server errors at ERROR.
// A nil logger disables it.
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			logger.Error("[HTTP] %s %s -> %d (%s) %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.Errors.String())
			return
		}
		logger.Debug("[HTTP] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
