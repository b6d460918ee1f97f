package security

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration - не хватает параметров для выпуска токенов. Сервис не должен стартовать.
	ErrConfiguration = errors.New("ошибка конфигурации выпуска токенов")
	// ErrMintingDisabled - выпуск токена вернул пустую строку.
	ErrMintingDisabled = errors.New("выпуск токенов отключен")
)

// AuthorityError - сервер авторизации ответил не 2xx.
type AuthorityError struct {
	StatusCode int
}

func (e *AuthorityError) Error() string {
	return fmt.Sprintf("сервер авторизации вернул статус %d", e.StatusCode)
}
