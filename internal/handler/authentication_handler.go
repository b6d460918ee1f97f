package handler

import (
	"GoRideShare/internal/forwarder"
	"GoRideShare/internal/logctx"
	"GoRideShare/internal/model"
	"GoRideShare/internal/ports"
	"GoRideShare/internal/service"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const tokenIssueFailedMessage = "Failed to issue tokens."

type AuthenticationHandler struct {
	accounts ports.AccountService
	timeout  time.Duration
}

func NewAuthenticationHandler(accounts ports.AccountService, timeout time.Duration) *AuthenticationHandler {
	return &AuthenticationHandler{accounts: accounts, timeout: timeout}
}

// Login выполняет вход по email и хешу пароля
// @Summary Вход по паролю
// @Description Проверяет учетные данные в DB-слое, выпускает пару logic/db токенов и сохраняет ее.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.LoginCredentials true "email и passwordHash"
// @Success 200 {object} model.LoginResponse "пара токенов"
// @Failure 400 {string} string "неполные данные или ошибка DB-слоя"
// @Failure 401 {string} string "неверные учетные данные"
// @Failure 500 {string} string "ошибка выпуска или сохранения токенов"
// @Router /Users/PasswordLogin [post]
func (handler *AuthenticationHandler) Login(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	var credentials model.LoginCredentials
	if err := json.NewDecoder(request.Body).Decode(&credentials); err != nil {
		http.Error(writer, "Incomplete user data.", http.StatusBadRequest)
		return
	}
	if err := credentials.Validate(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := handler.accounts.Login(ctx, credentials)
	if err != nil {
		var downstreamErr *forwarder.DownstreamError
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(writer, err.Error(), http.StatusUnauthorized)
		case errors.As(err, &downstreamErr):
			http.Error(writer, "Failed to login into the account: "+downstreamErr.Body, http.StatusBadRequest)
		default:
			logctx.From(ctx).Error("ошибка входа", slog.String("err", err.Error()))
			http.Error(writer, tokenIssueFailedMessage, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(writer, http.StatusOK, response)
}

// CreateAccount регистрирует пользователя и сразу выдает пару токенов
// @Summary Регистрация
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.UserRegistrationInfo true "данные пользователя"
// @Success 200 {object} model.LoginResponse "пара токенов"
// @Failure 400 {string} string "неполные данные или ошибка DB-слоя"
// @Failure 500 {string} string "ошибка выпуска или сохранения токенов"
// @Router /CreateUser [post]
func (handler *AuthenticationHandler) CreateAccount(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	var info model.UserRegistrationInfo
	if err := json.NewDecoder(request.Body).Decode(&info); err != nil {
		http.Error(writer, "Incomplete user data.", http.StatusBadRequest)
		return
	}
	if err := info.Validate(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := handler.accounts.CreateAccount(ctx, info)
	if err != nil {
		var downstreamErr *forwarder.DownstreamError
		if errors.As(err, &downstreamErr) {
			http.Error(writer, "Failed to create the account: "+downstreamErr.Body, http.StatusBadRequest)
			return
		}
		logctx.From(ctx).Error("ошибка регистрации", slog.String("err", err.Error()))
		http.Error(writer, tokenIssueFailedMessage, http.StatusInternalServerError)
		return
	}

	writeJSON(writer, http.StatusOK, response)
}

// GoogleSignIn входит по authorization code Google
// @Summary Вход через Google
// @Description Тело запроса - authorization code, строкой JSON или простым текстом.
// @Tags Authentication
// @Accept json
// @Produce json
// @Success 200 {object} model.LoginResponse "пара токенов"
// @Failure 400 {string} string "ошибка Google или DB-слоя"
// @Failure 500 {string} string "ошибка выпуска или сохранения токенов"
// @Router /GoogleSignIn [post]
func (handler *AuthenticationHandler) GoogleSignIn(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	code, err := readAuthorizationCode(request.Body)
	if err != nil {
		http.Error(writer, "Authorization code is missing.", http.StatusBadRequest)
		return
	}

	response, err := handler.accounts.GoogleSignIn(ctx, code)
	if err != nil {
		var googleErr *service.GoogleSignInError
		switch {
		case errors.Is(err, service.ErrUseEmailLogin):
			http.Error(writer, err.Error(), http.StatusBadRequest)
		case errors.As(err, &googleErr):
			http.Error(writer, googleErr.Message, http.StatusBadRequest)
		default:
			logctx.From(ctx).Error("ошибка входа через Google", slog.String("err", err.Error()))
			http.Error(writer, tokenIssueFailedMessage, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(writer, http.StatusOK, response)
}

func readAuthorizationCode(body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		code = string(raw)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return "", errors.New("пустой authorization code")
	}
	return code, nil
}
