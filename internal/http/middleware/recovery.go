package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"worksearch.app/aggregator/internal/metrics"
)

// Recovery turns a panic into a 500. The panic is logged with the request
// context, so a handler that tagged the search (logger.WithLogFields on
// c.Request) gets its term and scope in the log line. It is also recorded on
// the active span and counted per route.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			ctx := c.Request.Context()
			err := fmt.Errorf("panic: %v", rec)
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}

			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			metrics.HandlerPanic(route)

			slog.ErrorContext(ctx, "panic recovered",
				"error", err,
				"method", c.Request.Method,
				"route", route,
				"stack", string(debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
		}()
		c.Next()
	}
}
