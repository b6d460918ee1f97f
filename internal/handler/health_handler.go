package handler

import (
	"GoRideShare/internal/logctx"
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthCheck проверяет доступность хранилища токенов.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	check   HealthCheck
	timeout time.Duration
}

func NewHealthHandler(check HealthCheck, timeout time.Duration) *HealthHandler {
	return &HealthHandler{check: check, timeout: timeout}
}

func (handler *HealthHandler) Livez(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
	writer.Write([]byte("ok"))
}

func (handler *HealthHandler) Healthz(writer http.ResponseWriter, request *http.Request) {
	if handler.check != nil {
		ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
		defer cancel()

		if err := handler.check(ctx); err != nil {
			logctx.From(ctx).Warn("хранилище токенов недоступно", slog.String("err", err.Error()))
			http.Error(writer, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	writer.WriteHeader(http.StatusOK)
	writer.Write([]byte("ok"))
}
