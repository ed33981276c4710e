package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates or generates a request id and stores it on the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

// StructuredLogger logs one record per request once the handler chain has run.
func StructuredLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			slog.Int("status", status),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
		}

		ctx := c.Request.Context()
		switch {
		case len(c.Errors) > 0:
			fields = append(fields, slog.String("error", c.Errors.String()))
			observability.Logger.ErrorContext(ctx, "request failed", fields...)
		case status >= 500:
			observability.Logger.ErrorContext(ctx, "request failed", fields...)
		default:
			observability.Logger.InfoContext(ctx, "request processed", fields...)
		}
	}
}
