package service

import (
	"GoRideShare/internal/metrics"
	"GoRideShare/internal/model"
	"GoRideShare/internal/ports"
	"context"
	"fmt"
)

// TokenStore держит не больше двух пар токенов на пользователя.
// Третья и последующие пары перезаписывают самую старую строку, слот сохраняется.
type TokenStore struct {
	repository ports.TokenRepository
}

func NewTokenStore(repository ports.TokenRepository) *TokenStore {
	return &TokenStore{repository: repository}
}

// Save делает одно чтение и одну запись. Перезапись безусловная: при гонке побеждает последний.
func (store *TokenStore) Save(ctx context.Context, userID string, logicToken string, dbToken string) error {
	pairs, err := store.repository.ListByUser(ctx, userID)
	if err != nil {
		metrics.TokenStoreWrites.WithLabelValues("error").Inc()
		return fmt.Errorf("не удалось прочитать пары токенов: %w", err)
	}

	pair := &model.TokenPair{UserID: userID, LogicToken: logicToken, DbToken: dbToken}

	if len(pairs) >= 2 {
		pair.Slot = oldest(pairs).Slot
		if err := store.repository.Replace(ctx, pair); err != nil {
			metrics.TokenStoreWrites.WithLabelValues("error").Inc()
			return fmt.Errorf("не удалось перезаписать пару токенов: %w", err)
		}
		metrics.TokenStoreWrites.WithLabelValues("replace").Inc()
		return nil
	}

	pair.Slot = model.SlotFirst
	if len(pairs) == 1 {
		pair.Slot = model.SlotSecond
	}

	if err := store.repository.Insert(ctx, pair); err != nil {
		metrics.TokenStoreWrites.WithLabelValues("error").Inc()
		return fmt.Errorf("не удалось сохранить пару токенов: %w", err)
	}
	metrics.TokenStoreWrites.WithLabelValues("insert").Inc()
	return nil
}

// oldest выбирает строку с самым ранним временем. При равенстве побеждает первая.
func oldest(pairs []model.TokenPair) model.TokenPair {
	result := pairs[0]
	for _, pair := range pairs[1:] {
		if pair.Timestamp.Before(result.Timestamp) {
			result = pair
		}
	}
	return result
}
