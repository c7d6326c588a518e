package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

// LoggingMiddleware tags the request with an id (kept from X-Request-ID when the
// client sends one) and writes one access line when the handler chain returns.
func LoggingMiddleware(l logger.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDCtx, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		path := c.Request.URL.Path
		if rawQuery := c.Request.URL.RawQuery; rawQuery != "" {
			path += "?" + rawQuery
		}
		status := c.Writer.Status()

		args := []any{
			"request_id", requestID,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if userID, ok := UserID(c); ok {
			args = append(args, "user_id", userID)
		}

		msg := c.Request.Method + " " + path
		switch {
		case status >= http.StatusInternalServerError:
			l.Error(msg, args...)
		case status >= http.StatusBadRequest:
			l.Warn(msg, args...)
		default:
			l.Info(msg, args...)
		}

		for _, ginErr := range c.Errors {
			l.ErrorErr("HTTP request error", ginErr.Err, "request_id", requestID, "path", path)
		}
	}
}
