package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"foodcart/pkg/resp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger writes one line per request. Errors attached with c.Error
// are logged with their cause, which the client never sees.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Err(c.Errors.Last().Err)
		}
		ev.Str("request_id", c.GetString("requestId")).
			Str("user_id", c.GetString("userId")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

// Recovery turns a panic into a 500 with the standard error body.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		log.Error().
			Str("request_id", c.GetString("requestId")).
			Interface("panic", err).
			Msg("recovered from panic")
		resp.Error(c, fmt.Errorf("panic: %v", err))
	})
}
