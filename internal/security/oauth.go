package security

import (
	"GoRideShare/config"
	"GoRideShare/internal/metrics"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ClientCredentialsMinter получает токен у внешнего сервера авторизации по client-credentials.
// Полученный токен локально не проверяется.
type ClientCredentialsMinter struct {
	client       *http.Client
	authorityURL string
	clientID     string
	clientSecret string
	scope        string
}

// NewClientCredentialsMinter проверяет параметры заранее: пустое значение возвращает ErrConfiguration.
func NewClientCredentialsMinter(client *http.Client, authorityHost string, credentials config.ClientCredentials) (*ClientCredentialsMinter, error) {
	required := []struct {
		name  string
		value string
	}{
		{"client id", credentials.ClientID},
		{"client secret", credentials.ClientSecret},
		{"tenant id", credentials.TenantID},
		{"scope", credentials.Scope},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("%w: не задан %s", ErrConfiguration, field.name)
		}
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &ClientCredentialsMinter{
		client:       client,
		authorityURL: AuthorityURL(authorityHost, credentials.TenantID),
		clientID:     credentials.ClientID,
		clientSecret: credentials.ClientSecret,
		scope:        credentials.Scope,
	}, nil
}

// AuthorityURL строит адрес token endpoint для тенанта.
func AuthorityURL(authorityHost string, tenantID string) string {
	return strings.TrimRight(authorityHost, "/") + "/" + url.PathEscape(tenantID) + "/oauth2/v2.0/token"
}

// Mint не использует subjectEmail: токен выдается приложению, а не пользователю.
func (m *ClientCredentialsMinter) Mint(ctx context.Context, _ string) (string, error) {
	token, err := m.requestToken(ctx)
	switch {
	case err != nil:
		metrics.TokensMinted.WithLabelValues(config.StrategyOAuth, "error").Inc()
	case token == "":
		metrics.TokensMinted.WithLabelValues(config.StrategyOAuth, "disabled").Inc()
	default:
		metrics.TokensMinted.WithLabelValues(config.StrategyOAuth, "ok").Inc()
	}
	return token, err
}

func (m *ClientCredentialsMinter) requestToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {m.clientID},
		"client_secret": {m.clientSecret},
		"scope":         {m.scope},
		"grant_type":    {"client_credentials"},
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authorityURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса токена: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := m.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("ошибка запроса токена: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, response.Body)
		return "", &AuthorityError{StatusCode: response.StatusCode}
	}

	var tokenResponse accessTokenResponse
	if err := json.NewDecoder(response.Body).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("ошибка разбора ответа сервера авторизации: %w", err)
	}

	return tokenResponse.AccessToken, nil
}
