package repository

import (
	"GoRideShare/internal/model"
	"GoRideShare/internal/ports"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runTokenRepositoryContract проверяет поведение, общее для всех хранилищ.
func runTokenRepositoryContract(t *testing.T, repository ports.TokenRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty partition", func(t *testing.T) {
		pairs, err := repository.ListByUser(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})

	t.Run("insert and list ordered by slot", func(t *testing.T) {
		userID := uuid.NewString()
		second := &model.TokenPair{UserID: userID, Slot: model.SlotSecond, LogicToken: "l2", DbToken: "d2"}
		first := &model.TokenPair{UserID: userID, Slot: model.SlotFirst, LogicToken: "l1", DbToken: "d1"}
		require.NoError(t, repository.Insert(ctx, second))
		require.NoError(t, repository.Insert(ctx, first))
		assert.False(t, first.Timestamp.IsZero())

		pairs, err := repository.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, pairs, 2)
		assert.Equal(t, model.SlotFirst, pairs[0].Slot)
		assert.Equal(t, "l1", pairs[0].LogicToken)
		assert.Equal(t, "d1", pairs[0].DbToken)
		assert.Equal(t, userID, pairs[0].UserID)
		assert.Equal(t, model.SlotSecond, pairs[1].Slot)
	})

	t.Run("duplicate slot", func(t *testing.T) {
		userID := uuid.NewString()
		require.NoError(t, repository.Insert(ctx, &model.TokenPair{UserID: userID, Slot: model.SlotFirst, LogicToken: "a", DbToken: "b"}))

		err := repository.Insert(ctx, &model.TokenPair{UserID: userID, Slot: model.SlotFirst, LogicToken: "c", DbToken: "d"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("replace keeps slot", func(t *testing.T) {
		userID := uuid.NewString()
		original := &model.TokenPair{UserID: userID, Slot: model.SlotFirst, LogicToken: "old-l", DbToken: "old-d"}
		require.NoError(t, repository.Insert(ctx, original))

		require.NoError(t, repository.Replace(ctx, &model.TokenPair{UserID: userID, Slot: model.SlotFirst, LogicToken: "new-l", DbToken: "new-d"}))

		pairs, err := repository.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, pairs, 1)
		assert.Equal(t, model.SlotFirst, pairs[0].Slot)
		assert.Equal(t, "new-l", pairs[0].LogicToken)
		assert.Equal(t, "new-d", pairs[0].DbToken)
		assert.False(t, pairs[0].Timestamp.Before(original.Timestamp))
	})

	t.Run("replace missing slot", func(t *testing.T) {
		err := repository.Replace(ctx, &model.TokenPair{UserID: uuid.NewString(), Slot: model.SlotSecond, LogicToken: "l", DbToken: "d"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
