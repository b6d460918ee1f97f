package service

import (
	"GoRideShare/internal/ports"
	"context"
	"crypto/subtle"
	"fmt"
)

const TokenMismatchMessage = "Tokens do not match, please sign in again!"

type TokenVerifier struct {
	repository ports.TokenRepository
}

func NewTokenVerifier(repository ports.TokenRepository) *TokenVerifier {
	return &TokenVerifier{repository: repository}
}

// Verify ищет строку, где совпадают все три значения. Только чтение.
func (verifier *TokenVerifier) Verify(ctx context.Context, logicToken string, userID string, dbToken string) (bool, string, error) {
	pairs, err := verifier.repository.ListByUser(ctx, userID)
	if err != nil {
		return false, "", fmt.Errorf("не удалось прочитать пары токенов: %w", err)
	}

	for _, pair := range pairs {
		if pair.UserID == userID && equal(pair.LogicToken, logicToken) && equal(pair.DbToken, dbToken) {
			return true, "", nil
		}
	}

	return false, TokenMismatchMessage, nil
}

func equal(stored string, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
