package ports

import (
	"GoRideShare/internal/model"
	"context"
	"net/http"
)

// TokenRepository - низкоуровневый доступ к таблице UserTokens.
// ListByUser возвращает строки пользователя, упорядоченные по слоту.
type TokenRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.TokenPair, error)
	Insert(ctx context.Context, pair *model.TokenPair) error
	Replace(ctx context.Context, pair *model.TokenPair) error
}

type TokenMinter interface {
	Mint(ctx context.Context, subjectEmail string) (string, error)
}

type TokenStore interface {
	Save(ctx context.Context, userID string, logicToken string, dbToken string) error
}

type TokenVerifier interface {
	Verify(ctx context.Context, logicToken string, userID string, dbToken string) (bool, string, error)
}

type RequestGate interface {
	Policy() string
	Evaluate(ctx context.Context, header http.Header) (model.Decision, error)
}

// Forwarder отправляет запросы в DB-слой. Путь задается относительно BASE_API_URL.
type Forwarder interface {
	Get(ctx context.Context, path string, dbToken string, userID string) ([]byte, error)
	Post(ctx context.Context, path string, body []byte, dbToken string, userID string) ([]byte, error)
	Patch(ctx context.Context, path string, body []byte, dbToken string, userID string) ([]byte, error)
}

type GoogleProfileSource interface {
	Profile(ctx context.Context, authorizationCode string) (*model.UserRegistrationInfo, error)
	DownloadPhoto(ctx context.Context, photoURL string) (string, error)
}

type AccountService interface {
	Login(ctx context.Context, credentials model.LoginCredentials) (*model.LoginResponse, error)
	CreateAccount(ctx context.Context, info model.UserRegistrationInfo) (*model.LoginResponse, error)
	GoogleSignIn(ctx context.Context, authorizationCode string) (*model.LoginResponse, error)
}
