package handler

import (
	"GoRideShare/internal/logctx"
	"GoRideShare/internal/metrics"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger кладет в контекст логгер с request_id и пишет итог каждого запроса.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := strings.TrimSpace(request.Header.Get(RequestIDHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}
			writer.Header().Set(RequestIDHeader, requestID)

			requestLogger := logger.With(slog.String("request_id", requestID))
			ctx := logctx.Into(request.Context(), requestLogger)

			wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(wrapped, request.WithContext(ctx))
			elapsed := time.Since(start)

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			metrics.RequestDuration.
				WithLabelValues(request.Method, routePattern(request), strconv.Itoa(status)).
				Observe(elapsed.Seconds())

			requestLogger.Info("запрос обработан",
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", elapsed),
				slog.Int("bytes", wrapped.BytesWritten()),
			)
		})
	}
}

func routePattern(request *http.Request) string {
	if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
		if pattern := routeContext.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
