package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"a2t/internal/app/logging"
)

// StructuredLogging logs one line per request and stores a request-scoped
// logger in the request context for handlers and services.
func StructuredLogging(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestLogger := logger.With(zap.String("request_id", c.GetString(RequestIDKey)))
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), requestLogger))

		c.Next()

		// Skip logging for probe endpoints
		if path == "/health" || path == "/metrics" {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny).String(); errs != "" {
			fields = append(fields, zap.String("error", errs))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			requestLogger.Error("HTTP Request", fields...)
		case status >= 400:
			requestLogger.Warn("HTTP Request", fields...)
		default:
			requestLogger.Info("HTTP Request", fields...)
		}
	}
}
