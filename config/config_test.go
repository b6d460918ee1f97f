package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// 1
func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, DriverMemory, cfg.TokenStore.Driver)
	assert.Equal(t, "UserTokens", cfg.TokenStore.Table)
	assert.Equal(t, "https://login.microsoftonline.com", cfg.OAuth.AuthorityHost)
	assert.Equal(t, StrategyOAuth, cfg.OAuth.LogicStrategy)
}

// 2
func TestLoadConfig_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, `
env: dev
server:
  port: "9000"
downstream:
  base_url: http://db.local
token_store:
  driver: redis
  connection_string: redis://yaml:6379/0
`)
	t.Setenv("USER_TOKENS_TABLE_CONNECTION_STRING", "redis://env:6379/1")
	t.Setenv("OAUTH_CLIENT_ID_DB", "db-client")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "http://db.local", cfg.Downstream.BaseURL)
	assert.Equal(t, DriverRedis, cfg.TokenStore.Driver)
	assert.Equal(t, "redis://env:6379/1", cfg.TokenStore.ConnectionString)
	assert.Equal(t, "db-client", cfg.OAuth.DbCredentials().ClientID)
}

// 3
func TestLoadConfig_ConfigPathFromEnv(t *testing.T) {
	path := writeYAML(t, "jwt:\n  issuer: rideshare\n")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "rideshare", cfg.JWT.Issuer)
}

// 4
func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "недоступен")
}

// 5
func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OAuth:      OAuthConfig{LogicStrategy: StrategyOAuth, DbStrategy: StrategySelfSigned},
			TokenStore: TokenStoreConfig{Driver: DriverMemory, Table: "UserTokens"},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.TokenStore.Driver = DriverPostgres
	assert.ErrorContains(t, cfg.Validate(), "USER_TOKENS_TABLE_CONNECTION_STRING")

	cfg = valid()
	cfg.TokenStore.Driver = "azure"
	assert.ErrorContains(t, cfg.Validate(), "неизвестный драйвер")

	cfg = valid()
	cfg.OAuth.DbStrategy = "none"
	assert.ErrorContains(t, cfg.Validate(), "неизвестная стратегия")
}

// 6
func TestOAuthConfig_Credentials(t *testing.T) {
	o := OAuthConfig{
		ClientID: "logic-id", ClientSecret: "logic-secret", TenantID: "t1", Scope: "api://logic/.default",
		DbClientID: "db-id", DbClientSecret: "db-secret", DbTenantID: "t2", DbScope: "api://db/.default",
	}

	assert.Equal(t, ClientCredentials{"logic-id", "logic-secret", "t1", "api://logic/.default"}, o.LogicCredentials())
	assert.Equal(t, ClientCredentials{"db-id", "db-secret", "t2", "api://db/.default"}, o.DbCredentials())
}
