package repository

import "errors"

var (
	ErrNotFound      = errors.New("пара токенов не найдена")
	ErrAlreadyExists = errors.New("слот уже занят")
)
