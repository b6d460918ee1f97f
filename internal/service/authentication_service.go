package service

import (
	"GoRideShare/internal/forwarder"
	"GoRideShare/internal/logctx"
	"GoRideShare/internal/model"
	"GoRideShare/internal/ports"
	"GoRideShare/internal/security"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("Invalid login credentials.")
	ErrUseEmailLogin      = errors.New("Use email and password to log in.")
	ErrMissingUserID      = errors.New("DB-слой не вернул user_id")
)

// GoogleSignInError - ошибка входа через Google, текст которой отдается клиенту с кодом 400.
type GoogleSignInError struct {
	Message string
}

func (e *GoogleSignInError) Error() string {
	return e.Message
}

type AuthenticationService struct {
	Forwarder   ports.Forwarder
	TokenStore  ports.TokenStore
	LogicMinter ports.TokenMinter
	DbMinter    ports.TokenMinter
	Google      ports.GoogleProfileSource
}

func NewAuthenticationService(
	downstream ports.Forwarder,
	tokenStore ports.TokenStore,
	logicMinter ports.TokenMinter,
	dbMinter ports.TokenMinter,
	google ports.GoogleProfileSource,
) *AuthenticationService {
	return &AuthenticationService{
		Forwarder:   downstream,
		TokenStore:  tokenStore,
		LogicMinter: logicMinter,
		DbMinter:    dbMinter,
		Google:      google,
	}
}

// Login проверяет учетные данные в DB-слое и выдает новую пару токенов.
func (service *AuthenticationService) Login(ctx context.Context, credentials model.LoginCredentials) (*model.LoginResponse, error) {
	dbToken, err := mint(ctx, service.DbMinter, credentials.Email)
	if err != nil {
		return nil, fmt.Errorf("ошибка выпуска db-токена: %w", err)
	}

	body, err := json.Marshal(credentials)
	if err != nil {
		return nil, fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	payload, err := service.Forwarder.Post(ctx, "/api/users/PasswordLogin", body, dbToken, "")
	if err != nil {
		return nil, fmt.Errorf("не удалось войти в аккаунт: %w", err)
	}

	user, err := decodeLoginResponse(payload)
	if err != nil {
		return nil, err
	}
	if user.UserID == "" {
		return nil, ErrInvalidCredentials
	}

	return service.issuePair(ctx, user.UserID, credentials.Email, dbToken, user.Photo)
}

// CreateAccount регистрирует пользователя и сразу выдает пару токенов.
func (service *AuthenticationService) CreateAccount(ctx context.Context, info model.UserRegistrationInfo) (*model.LoginResponse, error) {
	dbToken, err := mint(ctx, service.DbMinter, info.Email)
	if err != nil {
		return nil, fmt.Errorf("ошибка выпуска db-токена: %w", err)
	}

	body, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	payload, err := service.Forwarder.Post(ctx, "/api/CreateUser", body, dbToken, "")
	if err != nil {
		return nil, fmt.Errorf("не удалось создать аккаунт: %w", err)
	}

	user, err := decodeLoginResponse(payload)
	if err != nil {
		return nil, err
	}
	if user.UserID == "" {
		return nil, ErrMissingUserID
	}
	if user.Photo == "" {
		user.Photo = info.Photo
	}

	return service.issuePair(ctx, user.UserID, info.Email, dbToken, user.Photo)
}

// GoogleSignIn входит по authorization code. Неизвестный DB-слою пользователь регистрируется.
func (service *AuthenticationService) GoogleSignIn(ctx context.Context, authorizationCode string) (*model.LoginResponse, error) {
	logger := logctx.From(ctx)

	info, err := service.Google.Profile(ctx, strings.TrimSpace(authorizationCode))
	if err != nil {
		logger.Warn("не удалось получить профиль Google", slog.String("err", err.Error()))
		return nil, &GoogleSignInError{Message: err.Error()}
	}

	dbToken, err := mint(ctx, service.DbMinter, info.Email)
	if err != nil {
		return nil, fmt.Errorf("ошибка выпуска db-токена: %w", err)
	}

	body, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	payload, err := service.Forwarder.Post(ctx, "/api/GoogleLogin", body, dbToken, "")
	if err != nil {
		var downstreamErr *forwarder.DownstreamError
		if errors.As(err, &downstreamErr) == false {
			return nil, fmt.Errorf("ошибка входа через Google: %w", err)
		}

		switch downstreamErr.StatusCode {
		case http.StatusConflict:
			return nil, ErrUseEmailLogin
		case http.StatusUnauthorized:
			logger.Info("пользователь Google не зарегистрирован, создаем профиль", slog.String("user_id", info.UserID))
			payload, err = service.registerGoogleUser(ctx, info, dbToken)
			if err != nil {
				return nil, err
			}
		default:
			return nil, &GoogleSignInError{Message: fmt.Sprintf("Could not log in due to an unexpected error: %d", downstreamErr.StatusCode)}
		}
	}

	var user model.DbLayerLoginResponse
	if err := json.Unmarshal(payload, &user); err != nil || strings.TrimSpace(user.UserID) == "" || strings.TrimSpace(user.Photo) == "" {
		return nil, &GoogleSignInError{Message: "Failed to deserialize response when trying to register Google user:" + string(payload)}
	}

	return service.issuePair(ctx, user.UserID, info.Email, dbToken, user.Photo)
}

func (service *AuthenticationService) registerGoogleUser(ctx context.Context, info *model.UserRegistrationInfo, dbToken string) ([]byte, error) {
	photo, err := service.Google.DownloadPhoto(ctx, info.PhotoURL)
	if err != nil {
		return nil, &GoogleSignInError{Message: err.Error()}
	}
	info.Photo = photo

	body, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	payload, err := service.Forwarder.Post(ctx, "/api/CreateUser", body, dbToken, "")
	if err != nil {
		var downstreamErr *forwarder.DownstreamError
		if errors.As(err, &downstreamErr) {
			return nil, &GoogleSignInError{Message: fmt.Sprintf("Failed to register the user using Google profile: %d", downstreamErr.StatusCode)}
		}
		return nil, fmt.Errorf("ошибка регистрации пользователя Google: %w", err)
	}

	return payload, nil
}

// issuePair выпускает logic-токен и сохраняет пару с уже полученным db-токеном.
func (service *AuthenticationService) issuePair(ctx context.Context, userID string, email string, dbToken string, photo string) (*model.LoginResponse, error) {
	logicToken, err := mint(ctx, service.LogicMinter, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка выпуска logic-токена: %w", err)
	}

	if err := service.TokenStore.Save(ctx, userID, logicToken, dbToken); err != nil {
		return nil, fmt.Errorf("не удалось сохранить пару токенов: %w", err)
	}

	logctx.From(ctx).Info("выдана новая пара токенов", slog.String("user_id", userID))
	return &model.LoginResponse{
		UserID:     userID,
		LogicToken: logicToken,
		DbToken:    dbToken,
		Photo:      photo,
	}, nil
}

func mint(ctx context.Context, minter ports.TokenMinter, email string) (string, error) {
	token, err := minter.Mint(ctx, email)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", security.ErrMintingDisabled
	}
	return token, nil
}

func decodeLoginResponse(payload []byte) (*model.DbLayerLoginResponse, error) {
	var user model.DbLayerLoginResponse
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа DB-слоя: %w", err)
	}
	user.UserID = strings.TrimSpace(user.UserID)
	return &user, nil
}
