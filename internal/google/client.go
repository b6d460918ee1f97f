package google

import (
	"GoRideShare/config"
	"GoRideShare/internal/model"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

const (
	userIDPrefix       = "googleuser-"
	googlePasswordHash = "googleuser"
	authURL            = "https://accounts.google.com/o/oauth2/auth"
)

type profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Client обменивает authorization code на профиль Google и скачивает фото профиля.
type Client struct {
	httpClient *http.Client
	cfg        config.GoogleConfig
	oauth      *oauth2.Config
}

func NewClient(httpClient *http.Client, cfg config.GoogleConfig) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

// Profile возвращает данные для регистрации: id с префиксом googleuser- и фиксированный passwordHash.
func (c *Client) Profile(ctx context.Context, authorizationCode string) (*model.UserRegistrationInfo, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, authorizationCode)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, fmt.Errorf("Failed to retrieve access token: HTTP Status: %d", retrieveErr.Response.StatusCode)
		}
		return nil, fmt.Errorf("Failed to retrieve access token: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ProfileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса профиля: %w", err)
	}

	var p profile
	if err := doJSON(c.oauth.Client(ctx, token), request, &p); err != nil {
		return nil, fmt.Errorf("Failed to retrieve profile: %w", err)
	}

	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
		return nil, errors.New("Failed to deserialize user profile or the name, email or id is missing.")
	}

	return &model.UserRegistrationInfo{
		UserID:       userIDPrefix + p.ID,
		Email:        p.Email,
		Name:         p.Name,
		PasswordHash: googlePasswordHash,
		PhotoURL:     p.Picture,
	}, nil
}

// DownloadPhoto скачивает фото и возвращает его как data URI.
func (c *Client) DownloadPhoto(ctx context.Context, photoURL string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса фото: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("Failed downloading user photo: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", fmt.Errorf("Failed downloading user photo: %d", response.StatusCode)
	}

	photo, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения фото: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(photo), nil
}

func doJSON(client *http.Client, request *http.Request, target any) error {
	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("HTTP Status: %d", response.StatusCode)
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("ошибка разбора ответа: %w", err)
	}
	return nil
}
