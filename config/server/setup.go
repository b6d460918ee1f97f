package server

import (
	"GoRideShare/config"
	"GoRideShare/internal"
	"GoRideShare/internal/handler"
	"GoRideShare/internal/ports"
	"GoRideShare/internal/repository"
	"GoRideShare/internal/security"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// TokenBackend - выбранное хранилище пар токенов вместе с проверкой доступности и закрытием.
type TokenBackend struct {
	Repository ports.TokenRepository
	Health     handler.HealthCheck
	Close      func(ctx context.Context) error
}

type Minters struct {
	Logic ports.TokenMinter
	Db    ports.TokenMinter
	// LogicValidator задан только при самоподписанных logic-токенах.
	LogicValidator security.LocalValidator
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func SetupTokenBackend(ctx context.Context, cfg config.TokenStoreConfig) (*TokenBackend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		database, err := internal.NewDatabaseConnection(ctx, config.DriverPostgres, cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения: %w", err)
		}
		return &TokenBackend{
			Repository: repository.NewPostgresTokenRepository(database, cfg.Table),
			Health:     database.PingContext,
			Close:      func(context.Context) error { return database.Close() },
		}, nil

	case config.DriverRedis:
		rdb, err := repository.NewRedisClient(ctx, cfg.ConnectionString)
		if err != nil {
			return nil, err
		}
		return &TokenBackend{
			Repository: repository.NewRedisTokenRepository(rdb, cfg.Table),
			Health:     func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			Close:      func(context.Context) error { return rdb.Close() },
		}, nil

	case config.DriverMongo:
		mongoRepository, err := repository.NewMongoTokenRepository(ctx, cfg.ConnectionString, cfg.Table)
		if err != nil {
			return nil, err
		}
		return &TokenBackend{
			Repository: mongoRepository,
			Health:     mongoRepository.Ping,
			Close:      mongoRepository.Close,
		}, nil

	case config.DriverMemory:
		slog.Warn("пары токенов хранятся в памяти и пропадут при перезапуске")
		return &TokenBackend{
			Repository: repository.NewMemoryTokenRepository(nil),
			Close:      func(context.Context) error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("неизвестный драйвер хранилища токенов: %q", cfg.Driver)
}

// SetupMinters собирает выпуск токенов для обоих уровней. Ошибка конфигурации client credentials
// возвращается сразу, сервис не должен стартовать.
func SetupMinters(client *http.Client, cfg *config.Config) (*Minters, error) {
	logic, err := setupMinter(client, cfg, cfg.OAuth.LogicStrategy, cfg.OAuth.LogicCredentials())
	if err != nil {
		return nil, fmt.Errorf("logic-токены: %w", err)
	}

	db, err := setupMinter(client, cfg, cfg.OAuth.DbStrategy, cfg.OAuth.DbCredentials())
	if err != nil {
		return nil, fmt.Errorf("db-токены: %w", err)
	}

	minters := &Minters{Logic: logic, Db: db}
	if selfSigned, ok := logic.(*security.SelfSignedMinter); ok {
		minters.LogicValidator = selfSigned
	}

	return minters, nil
}

func setupMinter(client *http.Client, cfg *config.Config, strategy string, credentials config.ClientCredentials) (ports.TokenMinter, error) {
	if strategy == config.StrategySelfSigned {
		if cfg.JWT.SecretKey == "" {
			slog.Warn("JWT_SECRET_KEY не задан, выпуск самоподписанных токенов отключен")
		}
		return security.NewSelfSignedMinter(cfg.JWT), nil
	}

	return security.NewClientCredentialsMinter(client, cfg.OAuth.AuthorityHost, credentials)
}

func SetupServer(cfg config.ServerConfig) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	return server, router
}
