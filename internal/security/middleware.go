package security

import (
	"GoRideShare/internal/logctx"
	"GoRideShare/internal/metrics"
	"GoRideShare/internal/model"
	"GoRideShare/internal/ports"
	"context"
	"log/slog"
	"net/http"
)

type identityKey struct{}

// Identity - проверенные заголовки запроса, доступные обработчикам.
type Identity struct {
	UserID  string
	DbToken string
}

// IdentityFrom достает Identity, положенную GateMiddleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func GateMiddleware(gate ports.RequestGate) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleGate(gate, next))
	}
}

func handleGate(gate ports.RequestGate, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		logger := logctx.From(request.Context())

		decision, err := gate.Evaluate(request.Context(), request.Header)
		if err != nil {
			metrics.GateDecisions.WithLabelValues(gate.Policy(), "error").Inc()
			logger.Error("ошибка проверки доступа", slog.String("policy", gate.Policy()), slog.String("err", err.Error()))
			http.Error(writer, "Error verifying tokens.", http.StatusInternalServerError)
			return
		}
		metrics.GateDecisions.WithLabelValues(gate.Policy(), decision.Kind.String()).Inc()

		switch decision.Kind {
		case model.DecisionMissingHeader:
			http.Error(writer, decision.Message(), http.StatusBadRequest)
			return
		case model.DecisionUnauthorized:
			logger.Info("запрос отклонен", slog.String("policy", gate.Policy()), slog.String("reason", decision.Reason))
			http.Error(writer, decision.Message(), http.StatusUnauthorized)
			return
		}

		ctx := WithIdentity(request.Context(), Identity{UserID: decision.UserID, DbToken: decision.DbToken})
		ctx = logctx.Into(ctx, logger.With(slog.String("user_id", decision.UserID)))
		next.ServeHTTP(writer, request.WithContext(ctx))
	}
}
