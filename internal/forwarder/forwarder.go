package forwarder

import (
	"GoRideShare/internal/logctx"
	"GoRideShare/internal/metrics"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

var ErrInvalidURL = errors.New("Invalid Database URL")

// DownstreamError - DB-слой ответил не 2xx.
type DownstreamError struct {
	StatusCode int
	Body       string
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("DB-слой вернул статус %d: %s", e.StatusCode, e.Body)
}

// Message - текст для клиента: 404 и 400 передаются как есть, иначе тело ответа.
func (e *DownstreamError) Message() string {
	switch e.StatusCode {
	case http.StatusNotFound:
		return "404: Not Found"
	case http.StatusBadRequest:
		return "400: Bad Request"
	default:
		return e.Body
	}
}

// Forwarder проксирует запросы в DB-слой с db-токеном в Authorization и X-User-ID.
type Forwarder struct {
	client  *http.Client
	baseURL string
}

func New(client *http.Client, baseURL string) *Forwarder {
	if client == nil {
		client = http.DefaultClient
	}
	return &Forwarder{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (f *Forwarder) Get(ctx context.Context, path string, dbToken string, userID string) ([]byte, error) {
	return f.do(ctx, http.MethodGet, path, nil, dbToken, userID)
}

func (f *Forwarder) Post(ctx context.Context, path string, body []byte, dbToken string, userID string) ([]byte, error) {
	return f.do(ctx, http.MethodPost, path, body, dbToken, userID)
}

func (f *Forwarder) Patch(ctx context.Context, path string, body []byte, dbToken string, userID string) ([]byte, error) {
	return f.do(ctx, http.MethodPatch, path, body, dbToken, userID)
}

func (f *Forwarder) endpoint(path string) (string, error) {
	parsed, err := url.Parse(f.baseURL + path)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", ErrInvalidURL
	}
	return parsed.String(), nil
}

func (f *Forwarder) do(ctx context.Context, method string, path string, body []byte, dbToken string, userID string) ([]byte, error) {
	endpoint, err := f.endpoint(path)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Authorization", "Bearer "+dbToken)
	if userID != "" {
		request.Header.Set("X-User-ID", userID)
	}

	response, err := f.client.Do(request)
	if err != nil {
		metrics.DownstreamRequests.WithLabelValues(method, metrics.StatusClass(0)).Inc()
		return nil, fmt.Errorf("ошибка запроса к DB-слою: %w", err)
	}
	defer response.Body.Close()
	metrics.DownstreamRequests.WithLabelValues(method, metrics.StatusClass(response.StatusCode)).Inc()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа DB-слоя: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		logctx.From(ctx).Warn("DB-слой вернул ошибку",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", response.StatusCode),
		)
		return nil, &DownstreamError{StatusCode: response.StatusCode, Body: string(payload)}
	}

	return payload, nil
}
