package server

import (
	"GoRideShare/config"
	"GoRideShare/internal/security"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{SecretKey: "secret", Issuer: "gorideshare", Audience: "riders"},
		OAuth: config.OAuthConfig{
			AuthorityHost: "https://login.example.com",
			LogicStrategy: config.StrategySelfSigned,
			DbStrategy:    config.StrategySelfSigned,
		},
	}
}

// 1
func TestSetupMinters_SelfSignedProvidesValidator(t *testing.T) {
	minters, err := SetupMinters(http.DefaultClient, baseConfig())
	require.NoError(t, err)

	assert.IsType(t, &security.SelfSignedMinter{}, minters.Logic)
	assert.IsType(t, &security.SelfSignedMinter{}, minters.Db)
	require.NotNil(t, minters.LogicValidator)

	token, err := minters.Logic.Mint(context.Background(), "rider@example.com")
	require.NoError(t, err)
	claims, err := minters.LogicValidator.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "rider@example.com", claims.Email)
}

// 2
func TestSetupMinters_OAuthFailsFast(t *testing.T) {
	cfg := baseConfig()
	cfg.OAuth.DbStrategy = config.StrategyOAuth
	cfg.OAuth.DbClientID = "client"

	_, err := SetupMinters(http.DefaultClient, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, security.ErrConfiguration)
	assert.Contains(t, err.Error(), "db-токены")
}

// 3
func TestSetupMinters_OAuthLogicHasNoValidator(t *testing.T) {
	cfg := baseConfig()
	cfg.OAuth.LogicStrategy = config.StrategyOAuth
	cfg.OAuth.ClientID = "client"
	cfg.OAuth.ClientSecret = "secret"
	cfg.OAuth.TenantID = "tenant"
	cfg.OAuth.Scope = "api://logic/.default"

	minters, err := SetupMinters(http.DefaultClient, cfg)
	require.NoError(t, err)
	assert.IsType(t, &security.ClientCredentialsMinter{}, minters.Logic)
	assert.Nil(t, minters.LogicValidator)
}

// 4
func TestSetupTokenBackend_Memory(t *testing.T) {
	backend, err := SetupTokenBackend(context.Background(), config.TokenStoreConfig{Driver: config.DriverMemory, Table: "UserTokens"})
	require.NoError(t, err)
	assert.Nil(t, backend.Health)
	assert.NoError(t, backend.Close(context.Background()))

	pairs, err := backend.Repository.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

// 5
func TestSetupTokenBackend_UnknownDriver(t *testing.T) {
	_, err := SetupTokenBackend(context.Background(), config.TokenStoreConfig{Driver: "cassandra"})
	assert.Error(t, err)
}

// 6
func TestSetupServer(t *testing.T) {
	server, router := SetupServer(config.ServerConfig{Host: "127.0.0.1", Port: "9090", RequestTimeout: 3 * time.Second})
	assert.Equal(t, "127.0.0.1:9090", server.Addr)
	assert.Equal(t, 3*time.Second, server.ReadHeaderTimeout)
	assert.Same(t, router, server.Handler)
}
