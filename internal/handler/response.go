package handler

import (
	"GoRideShare/internal/forwarder"
	"GoRideShare/internal/logctx"
	"GoRideShare/internal/security"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

const dbLayerUnavailableMessage = "Error connecting to the DB layer."

func writeJSON(writer http.ResponseWriter, status int, value any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(value)
}

// writeRaw отдает тело ответа DB-слоя без изменений.
func writeRaw(writer http.ResponseWriter, payload []byte) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	writer.Write(payload)
}

// writeList отдает список из DB-слоя, пустой ответ превращается в [].
func writeList(writer http.ResponseWriter, payload []byte) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("[]")
	}
	writeRaw(writer, trimmed)
}

// writeForwardError переводит ошибку DB-слоя в ответ клиенту.
// notFoundMessage заменяет стандартный текст 404, если не пустой.
func writeForwardError(ctx context.Context, writer http.ResponseWriter, err error, notFoundMessage string) {
	logger := logctx.From(ctx)

	var downstreamErr *forwarder.DownstreamError
	if errors.As(err, &downstreamErr) == false {
		logger.Error("ошибка запроса к DB-слою", slog.String("err", err.Error()))
		http.Error(writer, dbLayerUnavailableMessage, http.StatusInternalServerError)
		return
	}

	switch downstreamErr.StatusCode {
	case http.StatusNotFound:
		message := downstreamErr.Message()
		if notFoundMessage != "" {
			message = notFoundMessage
		}
		http.Error(writer, message, http.StatusNotFound)
	case http.StatusBadRequest:
		http.Error(writer, downstreamErr.Message(), http.StatusBadRequest)
	default:
		logger.Error("DB-слой вернул ошибку", slog.Int("status", downstreamErr.StatusCode))
		http.Error(writer, "Error connecting to the DB layer: "+downstreamErr.Message(), http.StatusInternalServerError)
	}
}

// identity достает заголовки, проверенные gate-middleware.
func identity(writer http.ResponseWriter, request *http.Request) (security.Identity, bool) {
	id, ok := security.IdentityFrom(request.Context())
	if ok == false {
		http.Error(writer, "Missing the following header: '"+security.HeaderUserID+"'.", http.StatusBadRequest)
	}
	return id, ok
}
