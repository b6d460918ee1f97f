package config

import (
	"net"
	"time"
)

// Стратегии выпуска токенов для logic- и db-уровня.
const (
	StrategyOAuth      = "oauth"
	StrategySelfSigned = "self_signed"
)

// Драйверы хранилища пар токенов.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	Server     ServerConfig     `yaml:"server"`
	Downstream DownstreamConfig `yaml:"downstream"`
	JWT        JWTConfig        `yaml:"jwt"`
	OAuth      OAuthConfig      `yaml:"oauth"`
	Google     GoogleConfig     `yaml:"google"`
	TokenStore TokenStoreConfig `yaml:"token_store"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Addr возвращает адрес в формате host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DownstreamConfig описывает DB-слой, в который проксируются запросы.
type DownstreamConfig struct {
	BaseURL string        `yaml:"base_url" env:"BASE_API_URL"`
	Timeout time.Duration `yaml:"timeout" env:"DOWNSTREAM_TIMEOUT" env-default:"10s"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	Issuer    string `yaml:"issuer" env:"JWT_ISSUER"`
	Audience  string `yaml:"audience" env:"JWT_AUDIENCE"`
}

// OAuthConfig содержит два набора client-credentials: для logic-токена и для db-токена.
type OAuthConfig struct {
	AuthorityHost string `yaml:"authority_host" env:"OAUTH_AUTHORITY_HOST" env-default:"https://login.microsoftonline.com"`
	LogicStrategy string `yaml:"logic_strategy" env:"LOGIC_TOKEN_STRATEGY" env-default:"oauth"`
	DbStrategy    string `yaml:"db_strategy" env:"DB_TOKEN_STRATEGY" env-default:"oauth"`

	ClientID     string `yaml:"client_id" env:"OAUTH_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"OAUTH_CLIENT_SECRET"`
	TenantID     string `yaml:"tenant_id" env:"OAUTH_TENANT_ID"`
	Scope        string `yaml:"scope" env:"OAUTH_SCOPE"`

	DbClientID     string `yaml:"db_client_id" env:"OAUTH_CLIENT_ID_DB"`
	DbClientSecret string `yaml:"db_client_secret" env:"OAUTH_CLIENT_SECRET_DB"`
	DbTenantID     string `yaml:"db_tenant_id" env:"OAUTH_TENANT_ID_DB"`
	DbScope        string `yaml:"db_scope" env:"OAUTH_SCOPE_DB"`
}

type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	Scope        string
}

func (o OAuthConfig) LogicCredentials() ClientCredentials {
	return ClientCredentials{
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		TenantID:     o.TenantID,
		Scope:        o.Scope,
	}
}

func (o OAuthConfig) DbCredentials() ClientCredentials {
	return ClientCredentials{
		ClientID:     o.DbClientID,
		ClientSecret: o.DbClientSecret,
		TenantID:     o.DbTenantID,
		Scope:        o.DbScope,
	}
}

type GoogleConfig struct {
	TokenURL     string `yaml:"token_url" env:"GOOGLE_TOKEN_URL" env-default:"https://oauth2.googleapis.com/token"`
	ProfileURL   string `yaml:"profile_url" env:"GOOGLE_PROFILE_URL" env-default:"https://www.googleapis.com/oauth2/v2/userinfo"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	RedirectURI  string `yaml:"redirect_uri" env:"REDIRECT_URI"`
}

type TokenStoreConfig struct {
	Driver           string `yaml:"driver" env:"TOKEN_STORE_DRIVER" env-default:"memory"`
	ConnectionString string `yaml:"connection_string" env:"USER_TOKENS_TABLE_CONNECTION_STRING"`
	Table            string `yaml:"table" env:"TOKEN_STORE_TABLE" env-default:"UserTokens"`
}
