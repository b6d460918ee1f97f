package repository

import (
	"GoRideShare/internal/model"
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryTokenRepository хранит пары в памяти процесса. Подходит для локального запуска и тестов.
type MemoryTokenRepository struct {
	mu    sync.RWMutex
	rows  map[string]map[string]model.TokenPair
	clock func() time.Time
}

func NewMemoryTokenRepository(clock func() time.Time) *MemoryTokenRepository {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryTokenRepository{
		rows:  make(map[string]map[string]model.TokenPair),
		clock: clock,
	}
}

func (repository *MemoryTokenRepository) ListByUser(ctx context.Context, userID string) ([]model.TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	pairs := make([]model.TokenPair, 0, len(repository.rows[userID]))
	for _, pair := range repository.rows[userID] {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Slot < pairs[j].Slot })

	return pairs, nil
}

func (repository *MemoryTokenRepository) Insert(ctx context.Context, pair *model.TokenPair) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	slots, ok := repository.rows[pair.UserID]
	if ok == false {
		slots = make(map[string]model.TokenPair, 2)
		repository.rows[pair.UserID] = slots
	}
	if _, exists := slots[pair.Slot]; exists {
		return ErrAlreadyExists
	}

	pair.Timestamp = repository.clock().UTC()
	slots[pair.Slot] = *pair
	return nil
}

func (repository *MemoryTokenRepository) Replace(ctx context.Context, pair *model.TokenPair) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	slots := repository.rows[pair.UserID]
	if _, exists := slots[pair.Slot]; exists == false {
		return ErrNotFound
	}

	pair.Timestamp = repository.clock().UTC()
	slots[pair.Slot] = *pair
	return nil
}
