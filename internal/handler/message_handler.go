package handler

import (
	"GoRideShare/internal/logctx"
	"GoRideShare/internal/model"
	"GoRideShare/internal/ports"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	downstream ports.Forwarder
	timeout    time.Duration
	now        func() time.Time
}

func NewMessageHandler(downstream ports.Forwarder, timeout time.Duration) *MessageHandler {
	return &MessageHandler{downstream: downstream, timeout: timeout, now: time.Now}
}

func (handler *MessageHandler) CreateConversation(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	var incoming model.IncomingConversationRequest
	if err := json.NewDecoder(request.Body).Decode(&incoming); err != nil {
		http.Error(writer, "Incomplete Conversation Request data.", http.StatusBadRequest)
		return
	}
	if err := incoming.Validate(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := json.Marshal(model.OutgoingConversationRequest{
		UserID:    incoming.UserID,
		TimeStamp: handler.now().UTC(),
		Contents:  incoming.Contents,
	})
	if err != nil {
		http.Error(writer, "Incomplete Conversation Request data.", http.StatusBadRequest)
		return
	}

	payload, err := handler.downstream.Post(ctx, "/api/CreateConversation", body, id.DbToken, id.UserID)
	if err != nil {
		writeForwardError(ctx, writer, err, "")
		return
	}

	writeRaw(writer, payload)
}

func (handler *MessageHandler) GetConversations(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	payload, err := handler.downstream.Get(ctx, "/api/conversations", id.DbToken, id.UserID)
	if err != nil {
		writeForwardError(ctx, writer, err, "")
		return
	}

	writeList(writer, payload)
}

// PostMessage отправляет сообщение от имени X-User-ID.
func (handler *MessageHandler) PostMessage(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	var incoming model.IncomingMessageRequest
	if err := json.NewDecoder(request.Body).Decode(&incoming); err != nil {
		http.Error(writer, "Incomplete Message data.", http.StatusBadRequest)
		return
	}
	if err := incoming.Validate(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := json.Marshal(model.OutgoingMessageRequest{
		SenderID:       id.UserID,
		TimeStamp:      handler.now().UTC(),
		ConversationID: incoming.ConversationID,
		Contents:       incoming.Contents,
	})
	if err != nil {
		http.Error(writer, "Incomplete Message data.", http.StatusBadRequest)
		return
	}

	payload, err := handler.downstream.Post(ctx, "/api/messages", body, id.DbToken, id.UserID)
	if err != nil {
		writeForwardError(ctx, writer, err, "")
		return
	}

	var created model.DbLayerResponse
	if err := json.Unmarshal(payload, &created); err != nil || strings.TrimSpace(created.ID) == "" {
		logctx.From(ctx).Error("DB-слой не вернул id сообщения", slog.String("body", string(payload)))
		http.Error(writer, "Message ID not found in the response from the DB layer.", http.StatusInternalServerError)
		return
	}

	writeJSON(writer, http.StatusOK, created)
}

// GetMessages возвращает беседу с сообщениями, при timeStamp - только более новые.
func (handler *MessageHandler) GetMessages(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	conversationID := chi.URLParam(request, "conversation_id")
	if strings.TrimSpace(conversationID) == "" {
		http.Error(writer, "Missing the following path parameter: 'conversation_id'.", http.StatusBadRequest)
		return
	}

	path := "/api/messages/" + url.PathEscape(conversationID)
	if timeStamp := strings.TrimSpace(request.URL.Query().Get("timeStamp")); timeStamp != "" {
		path += "?timeStamp=" + url.QueryEscape(timeStamp)
	}

	payload, err := handler.downstream.Get(ctx, path, id.DbToken, id.UserID)
	if err != nil {
		writeForwardError(ctx, writer, err, "")
		return
	}

	var conversation model.Conversation
	if err := json.Unmarshal(payload, &conversation); err != nil || conversation.Complete() == false {
		http.Error(writer, "Invalid conversation data received from the DB layer.", http.StatusBadRequest)
		return
	}

	writeJSON(writer, http.StatusOK, conversation)
}
