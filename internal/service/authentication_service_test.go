package service

import (
	"GoRideShare/internal/forwarder"
	"GoRideShare/internal/model"
	"GoRideShare/internal/security"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockForwarder struct {
	mock.Mock
}

type MockTokenMinter struct {
	mock.Mock
}

type MockTokenStore struct {
	mock.Mock
}

type MockGoogleProfileSource struct {
	mock.Mock
}

func (m *MockForwarder) Get(ctx context.Context, path string, dbToken string, userID string) ([]byte, error) {
	args := m.Called(ctx, path, dbToken, userID)
	payload, _ := args.Get(0).([]byte)
	return payload, args.Error(1)
}

func (m *MockForwarder) Post(ctx context.Context, path string, body []byte, dbToken string, userID string) ([]byte, error) {
	args := m.Called(ctx, path, body, dbToken, userID)
	payload, _ := args.Get(0).([]byte)
	return payload, args.Error(1)
}

func (m *MockForwarder) Patch(ctx context.Context, path string, body []byte, dbToken string, userID string) ([]byte, error) {
	args := m.Called(ctx, path, body, dbToken, userID)
	payload, _ := args.Get(0).([]byte)
	return payload, args.Error(1)
}

func (m *MockTokenMinter) Mint(ctx context.Context, subjectEmail string) (string, error) {
	args := m.Called(ctx, subjectEmail)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) Save(ctx context.Context, userID string, logicToken string, dbToken string) error {
	return m.Called(ctx, userID, logicToken, dbToken).Error(0)
}

func (m *MockGoogleProfileSource) Profile(ctx context.Context, authorizationCode string) (*model.UserRegistrationInfo, error) {
	args := m.Called(ctx, authorizationCode)
	info, _ := args.Get(0).(*model.UserRegistrationInfo)
	return info, args.Error(1)
}

func (m *MockGoogleProfileSource) DownloadPhoto(ctx context.Context, photoURL string) (string, error) {
	args := m.Called(ctx, photoURL)
	return args.String(0), args.Error(1)
}

type authMocks struct {
	forwarder *MockForwarder
	logic     *MockTokenMinter
	db        *MockTokenMinter
	store     *MockTokenStore
	google    *MockGoogleProfileSource
}

func newAuthService() (*AuthenticationService, authMocks) {
	mocks := authMocks{
		forwarder: new(MockForwarder),
		logic:     new(MockTokenMinter),
		db:        new(MockTokenMinter),
		store:     new(MockTokenStore),
		google:    new(MockGoogleProfileSource),
	}
	service := NewAuthenticationService(mocks.forwarder, mocks.store, mocks.logic, mocks.db, mocks.google)
	return service, mocks
}

var credentials = model.LoginCredentials{Email: "rider@example.com", PasswordHash: "hash"}

// 1
func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.db.On("Mint", ctx, "rider@example.com").Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, "/api/users/PasswordLogin", mock.Anything, "db-token", "").
		Return([]byte(`{"user_id":"u1","photo":"data:image/png;base64,AA=="}`), nil)
	mocks.logic.On("Mint", ctx, "rider@example.com").Return("logic-token", nil)
	mocks.store.On("Save", ctx, "u1", "logic-token", "db-token").Return(nil)

	response, err := authService.Login(ctx, credentials)
	require.NoError(t, err)

	assert.Equal(t, &model.LoginResponse{
		UserID:     "u1",
		LogicToken: "logic-token",
		DbToken:    "db-token",
		Photo:      "data:image/png;base64,AA==",
	}, response)
	mocks.store.AssertExpectations(t)
}

// 2
func TestLogin_DbMintingDisabled(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.db.On("Mint", ctx, mock.Anything).Return("", nil)

	_, err := authService.Login(ctx, credentials)
	assert.ErrorIs(t, err, security.ErrMintingDisabled)
	mocks.forwarder.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 3
func TestLogin_AuthorityError(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.db.On("Mint", ctx, mock.Anything).Return("", &security.AuthorityError{StatusCode: http.StatusBadGateway})

	_, err := authService.Login(ctx, credentials)
	var authorityErr *security.AuthorityError
	assert.True(t, errors.As(err, &authorityErr))
}

// 4
func TestLogin_DownstreamFailure(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.db.On("Mint", ctx, mock.Anything).Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, "/api/users/PasswordLogin", mock.Anything, "db-token", "").
		Return(nil, &forwarder.DownstreamError{StatusCode: http.StatusUnauthorized, Body: "wrong password"})

	_, err := authService.Login(ctx, credentials)
	var downstreamErr *forwarder.DownstreamError
	require.True(t, errors.As(err, &downstreamErr))
	assert.Equal(t, "wrong password", downstreamErr.Body)
	mocks.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 5
func TestLogin_MissingUserID(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.db.On("Mint", ctx, mock.Anything).Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]byte(`{"photo":"p"}`), nil)

	_, err := authService.Login(ctx, credentials)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	mocks.logic.AssertNotCalled(t, "Mint", mock.Anything, mock.Anything)
}

// 6
func TestLogin_LogicMintingDisabled(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.db.On("Mint", ctx, mock.Anything).Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]byte(`{"user_id":"u1"}`), nil)
	mocks.logic.On("Mint", ctx, mock.Anything).Return("", nil)

	_, err := authService.Login(ctx, credentials)
	assert.ErrorIs(t, err, security.ErrMintingDisabled)
	assert.Contains(t, err.Error(), "ошибка выпуска logic-токена")
	mocks.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 7
func TestLogin_SaveFails(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.db.On("Mint", ctx, mock.Anything).Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]byte(`{"user_id":"u1"}`), nil)
	mocks.logic.On("Mint", ctx, mock.Anything).Return("logic-token", nil)
	mocks.store.On("Save", ctx, "u1", "logic-token", "db-token").Return(fmt.Errorf("database error"))

	_, err := authService.Login(ctx, credentials)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не удалось сохранить пару токенов")
}

// 8
func TestCreateAccount_Success(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()
	info := model.UserRegistrationInfo{Email: "new@example.com", PasswordHash: "hash", Name: "New Rider", Photo: "data:image/jpeg;base64,AA=="}

	mocks.db.On("Mint", ctx, "new@example.com").Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, "/api/CreateUser", mock.Anything, "db-token", "").Return([]byte(`{"user_id":"u2"}`), nil)
	mocks.logic.On("Mint", ctx, "new@example.com").Return("logic-token", nil)
	mocks.store.On("Save", ctx, "u2", "logic-token", "db-token").Return(nil)

	response, err := authService.CreateAccount(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, "u2", response.UserID)
	assert.Equal(t, info.Photo, response.Photo)
}

// 9
func TestGoogleSignIn_ExistingUser(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()
	info := &model.UserRegistrationInfo{UserID: "googleuser-42", Email: "g@gmail.com", Name: "G", PasswordHash: "googleuser"}

	mocks.google.On("Profile", ctx, "code").Return(info, nil)
	mocks.db.On("Mint", ctx, "g@gmail.com").Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, "/api/GoogleLogin", mock.Anything, "db-token", "").
		Return([]byte(`{"user_id":"googleuser-42","photo":"data:image/jpeg;base64,AA=="}`), nil)
	mocks.logic.On("Mint", ctx, "g@gmail.com").Return("logic-token", nil)
	mocks.store.On("Save", ctx, "googleuser-42", "logic-token", "db-token").Return(nil)

	response, err := authService.GoogleSignIn(ctx, " code\n")
	require.NoError(t, err)
	assert.Equal(t, "googleuser-42", response.UserID)
	mocks.google.AssertNotCalled(t, "DownloadPhoto", mock.Anything, mock.Anything)
}

// 10
func TestGoogleSignIn_RegistersUnknownUser(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()
	info := &model.UserRegistrationInfo{UserID: "googleuser-42", Email: "g@gmail.com", Name: "G", PasswordHash: "googleuser", PhotoURL: "https://img/p.jpg"}

	mocks.google.On("Profile", ctx, "code").Return(info, nil)
	mocks.google.On("DownloadPhoto", ctx, "https://img/p.jpg").Return("data:image/jpeg;base64,AA==", nil)
	mocks.db.On("Mint", ctx, mock.Anything).Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, "/api/GoogleLogin", mock.Anything, "db-token", "").
		Return(nil, &forwarder.DownstreamError{StatusCode: http.StatusUnauthorized})
	mocks.forwarder.On("Post", ctx, "/api/CreateUser", mock.MatchedBy(func(body []byte) bool {
		return strings.Contains(string(body), `"photo":"data:image/jpeg;base64,AA=="`)
	}), "db-token", "").Return([]byte(`{"user_id":"googleuser-42","photo":"data:image/jpeg;base64,AA=="}`), nil)
	mocks.logic.On("Mint", ctx, mock.Anything).Return("logic-token", nil)
	mocks.store.On("Save", ctx, "googleuser-42", "logic-token", "db-token").Return(nil)

	response, err := authService.GoogleSignIn(ctx, "code")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,AA==", response.Photo)
	mocks.forwarder.AssertExpectations(t)
}

// 11
func TestGoogleSignIn_ConflictRequiresPasswordLogin(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.google.On("Profile", ctx, "code").Return(&model.UserRegistrationInfo{Email: "g@gmail.com"}, nil)
	mocks.db.On("Mint", ctx, mock.Anything).Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, "/api/GoogleLogin", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &forwarder.DownstreamError{StatusCode: http.StatusConflict})

	_, err := authService.GoogleSignIn(ctx, "code")
	assert.ErrorIs(t, err, ErrUseEmailLogin)
}

// 12
func TestGoogleSignIn_ProfileFailure(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.google.On("Profile", ctx, "code").Return(nil, errors.New("Failed to retrieve access token: HTTP Status: 400"))

	_, err := authService.GoogleSignIn(ctx, "code")
	var googleErr *GoogleSignInError
	require.True(t, errors.As(err, &googleErr))
	assert.Equal(t, "Failed to retrieve access token: HTTP Status: 400", googleErr.Message)
}

// 13
func TestGoogleSignIn_UnexpectedStatus(t *testing.T) {
	ctx := context.Background()
	authService, mocks := newAuthService()

	mocks.google.On("Profile", ctx, "code").Return(&model.UserRegistrationInfo{Email: "g@gmail.com"}, nil)
	mocks.db.On("Mint", ctx, mock.Anything).Return("db-token", nil)
	mocks.forwarder.On("Post", ctx, "/api/GoogleLogin", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &forwarder.DownstreamError{StatusCode: http.StatusServiceUnavailable})

	_, err := authService.GoogleSignIn(ctx, "code")
	var googleErr *GoogleSignInError
	require.True(t, errors.As(err, &googleErr))
	assert.Equal(t, "Could not log in due to an unexpected error: 503", googleErr.Message)
}
