package handler

import (
	"GoRideShare/internal/ports"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

type UserHandler struct {
	downstream ports.Forwarder
	timeout    time.Duration
}

func NewUserHandler(downstream ports.Forwarder, timeout time.Duration) *UserHandler {
	return &UserHandler{downstream: downstream, timeout: timeout}
}

// GetUser возвращает профиль пользователя из X-User-ID.
func (handler *UserHandler) GetUser(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	payload, err := handler.downstream.Get(ctx, "/api/GetUser", id.DbToken, id.UserID)
	if err != nil {
		writeForwardError(ctx, writer, err, "User not found in the database!")
		return
	}

	writeRaw(writer, payload)
}

func (handler *UserHandler) UpdateUser(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	body, err := io.ReadAll(request.Body)
	if err != nil || json.Valid(body) == false {
		http.Error(writer, "Invalid user data.", http.StatusBadRequest)
		return
	}

	if _, err := handler.downstream.Patch(ctx, "/api/users", body, id.DbToken, id.UserID); err != nil {
		writeForwardError(ctx, writer, err, "User not found in the database!")
		return
	}

	writeJSON(writer, http.StatusOK, map[string]string{"message": "User updated successfully"})
}
