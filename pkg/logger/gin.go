package logger

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware registra cada requisição HTTP processada pelo gin
func GinMiddleware(log Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString("user_id"); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("Requisição HTTP", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("Requisição HTTP", fields...)
		default:
			log.Info("Requisição HTTP", fields...)
		}
	}
}
