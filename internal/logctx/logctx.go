package logctx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладет логгер в контекст.
func Into(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From достает логгер из контекста или возвращает slog.Default().
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return slog.Default()
}
