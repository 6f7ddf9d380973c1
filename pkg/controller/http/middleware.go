package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
)

// LoggingMiddleware attaches a request scoped logger to the request context and
// logs each request once it is served. GitHub delivery headers are included so
// that a failed publish can be matched to its delivery in the App settings.
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			attrs := []any{slog.String("request_id", middleware.GetReqID(r.Context()))}
			if delivery := r.Header.Get("X-GitHub-Delivery"); delivery != "" {
				attrs = append(attrs,
					slog.String("delivery_id", delivery),
					slog.String("github_event", r.Header.Get("X-GitHub-Event")),
				)
			}
			logger := ctxlog.From(ctx).With(attrs...)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctxlog.With(r.Context(), logger)))
		})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode error response", "error", err)
	}
}
