package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// MustLoad вызывает LoadConfig и паникует при ошибке.
func MustLoad(filePath string) *Config {
	cfg, err := LoadConfig(filePath)
	if err != nil {
		panic(err)
	}

	return cfg
}

// LoadConfig собирает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) только переменные окружения.
// Переменные окружения всегда накладываются поверх yaml. Файл .env читается, если он есть.
func LoadConfig(filePath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	if filePath == "" {
		filePath = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if filePath != "" {
		if _, err := os.Stat(filePath); err != nil {
			return nil, fmt.Errorf("файл конфигурации %q недоступен: %w", filePath, err)
		}
		if err := cleanenv.ReadConfig(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("ошибка парсинга файла конфигурации: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет значения, без которых сервис не может стартовать.
func (cfg *Config) Validate() error {
	switch cfg.TokenStore.Driver {
	case DriverMemory:
	case DriverPostgres, DriverRedis, DriverMongo:
		if strings.TrimSpace(cfg.TokenStore.ConnectionString) == "" {
			return fmt.Errorf("не задан USER_TOKENS_TABLE_CONNECTION_STRING для драйвера %q", cfg.TokenStore.Driver)
		}
	default:
		return fmt.Errorf("неизвестный драйвер хранилища токенов: %q", cfg.TokenStore.Driver)
	}

	if strings.TrimSpace(cfg.TokenStore.Table) == "" {
		return fmt.Errorf("не задано имя таблицы токенов")
	}

	for _, strategy := range []string{cfg.OAuth.LogicStrategy, cfg.OAuth.DbStrategy} {
		if strategy != StrategyOAuth && strategy != StrategySelfSigned {
			return fmt.Errorf("неизвестная стратегия выпуска токенов: %q", strategy)
		}
	}

	return nil
}
