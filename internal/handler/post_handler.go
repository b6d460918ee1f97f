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

type PostHandler struct {
	downstream ports.Forwarder
	timeout    time.Duration
}

func NewPostHandler(downstream ports.Forwarder, timeout time.Duration) *PostHandler {
	return &PostHandler{downstream: downstream, timeout: timeout}
}

// SavePost создает объявление, если postId пустой, иначе обновляет существующее.
// posterId всегда берется из X-User-ID.
func (handler *PostHandler) SavePost(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	var post model.PostDetails
	if err := json.NewDecoder(request.Body).Decode(&post); err != nil {
		http.Error(writer, "Incomplete Post data.", http.StatusBadRequest)
		return
	}
	if err := post.Validate(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	post.PosterID = id.UserID

	body, err := json.Marshal(post)
	if err != nil {
		http.Error(writer, "Incomplete Post data.", http.StatusBadRequest)
		return
	}

	var payload []byte
	if strings.TrimSpace(post.PostID) == "" {
		payload, err = handler.downstream.Post(ctx, "/api/posts", body, id.DbToken, id.UserID)
	} else {
		payload, err = handler.downstream.Patch(ctx, "/api/posts/"+url.PathEscape(post.PostID), body, id.DbToken, id.UserID)
	}
	if err != nil {
		writeForwardError(ctx, writer, err, "")
		return
	}

	var created model.DbLayerResponse
	if err := json.Unmarshal(payload, &created); err != nil || strings.TrimSpace(created.ID) == "" {
		logctx.From(ctx).Error("DB-слой не вернул id объявления", slog.String("body", string(payload)))
		http.Error(writer, "Post ID not found in the response from the DB layer.", http.StatusInternalServerError)
		return
	}

	writeJSON(writer, http.StatusOK, created)
}

func (handler *PostHandler) GetPosts(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	userID := strings.TrimSpace(request.URL.Query().Get("userId"))
	if userID == "" {
		http.Error(writer, "Missing the following query parameter: 'userId'.", http.StatusBadRequest)
		return
	}

	payload, err := handler.downstream.Get(ctx, "/api/GetPosts?userId="+url.QueryEscape(userID), id.DbToken, id.UserID)
	if err != nil {
		writeForwardError(ctx, writer, err, "")
		return
	}

	writeList(writer, payload)
}

func (handler *PostHandler) GetAllPosts(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	payload, err := handler.downstream.Get(ctx, "/api/GetAllPosts", id.DbToken, id.UserID)
	if err != nil {
		writeForwardError(ctx, writer, err, "")
		return
	}

	writeList(writer, payload)
}

func (handler *PostHandler) GetPost(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	postID := chi.URLParam(request, "post_id")
	if strings.TrimSpace(postID) == "" {
		http.Error(writer, "Missing the following path parameter: 'post_id'.", http.StatusBadRequest)
		return
	}

	payload, err := handler.downstream.Get(ctx, "/api/post/"+url.PathEscape(postID), id.DbToken, id.UserID)
	if err != nil {
		writeForwardError(ctx, writer, err, "")
		return
	}

	writeRaw(writer, payload)
}

// SearchPosts проверяет только границы координат, подбор поездок выполняет DB-слой.
func (handler *PostHandler) SearchPosts(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	id, ok := identity(writer, request)
	if ok == false {
		return
	}

	var criteria model.SearchCriteria
	if err := json.NewDecoder(request.Body).Decode(&criteria); err != nil {
		http.Error(writer, "Invalid search criteria.", http.StatusBadRequest)
		return
	}
	if err := criteria.Validate(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := json.Marshal(criteria)
	if err != nil {
		http.Error(writer, "Invalid search criteria.", http.StatusBadRequest)
		return
	}

	payload, err := handler.downstream.Post(ctx, "/api/posts/search", body, id.DbToken, id.UserID)
	if err != nil {
		writeForwardError(ctx, writer, err, "")
		return
	}

	writeList(writer, payload)
}
