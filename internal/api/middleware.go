package api

import (
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audionode/internal/logging"
)

// HTTPLoggingMiddleware logs HTTP requests with appropriate log levels based on status codes.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	logger := logging.GetLogger("http")

	method := ctx.Method()
	path := ctx.URL().Path
	query := ctx.URL().RawQuery
	remoteAddr := ctx.RemoteAddr()

	logAttrs := []slog.Attr{
		slog.String("method", method),
		slog.String("path", path),
		slog.String("remote_addr", remoteAddr),
	}

	if query != "" {
		logAttrs = append(logAttrs, slog.String("query", query))
	}

	next(ctx)

	duration := time.Since(start)
	status := ctx.Status()

	logAttrs = append(logAttrs,
		slog.Int("status", status),
		slog.Duration("duration", duration),
	)

	message := "HTTP request completed"
	switch {
	case method == "OPTIONS":
		logger.LogAttrs(ctx.Context(), slog.LevelDebug, message, logAttrs...)
	case status >= 500:
		logger.LogAttrs(ctx.Context(), slog.LevelError, message, logAttrs...)
	case status >= 400:
		logger.LogAttrs(ctx.Context(), slog.LevelWarn, message, logAttrs...)
	default:
		logger.LogAttrs(ctx.Context(), slog.LevelInfo, message, logAttrs...)
	}
}
