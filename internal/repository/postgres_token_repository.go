package repository

import (
	"GoRideShare/internal"
	"GoRideShare/internal/model"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

type PostgresTokenRepository struct {
	*internal.Database
	table string
}

// NewPostgresTokenRepository работает с таблицей table. Имя экранируется, поэтому регистр сохраняется.
func NewPostgresTokenRepository(database *internal.Database, table string) *PostgresTokenRepository {
	return &PostgresTokenRepository{Database: database, table: pq.QuoteIdentifier(table)}
}

func (repository *PostgresTokenRepository) ListByUser(ctx context.Context, userID string) ([]model.TokenPair, error) {
	query := fmt.Sprintf(`SELECT partition_key, row_key, logic_token, db_token, updated_at
		FROM %s WHERE partition_key = $1 ORDER BY row_key`, repository.table)

	pairs := []model.TokenPair{}
	if err := repository.DB.SelectContext(ctx, &pairs, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка чтения пар токенов: %w", err)
	}

	return pairs, nil
}

func (repository *PostgresTokenRepository) Insert(ctx context.Context, pair *model.TokenPair) error {
	query := fmt.Sprintf(`INSERT INTO %s (partition_key, row_key, logic_token, db_token, updated_at)
		VALUES ($1, $2, $3, $4, now()) RETURNING updated_at`, repository.table)

	err := repository.DB.QueryRowxContext(ctx, query, pair.UserID, pair.Slot, pair.LogicToken, pair.DbToken).Scan(&pair.Timestamp)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("ошибка вставки данных в БД: %w", err)
	}

	return nil
}

func (repository *PostgresTokenRepository) Replace(ctx context.Context, pair *model.TokenPair) error {
	query := fmt.Sprintf(`UPDATE %s SET logic_token = $3, db_token = $4, updated_at = now()
		WHERE partition_key = $1 AND row_key = $2 RETURNING updated_at`, repository.table)

	rows, err := repository.DB.QueryxContext(ctx, query, pair.UserID, pair.Slot, pair.LogicToken, pair.DbToken)
	if err != nil {
		return fmt.Errorf("не удалось обновить пару токенов: %w", err)
	}
	defer rows.Close()

	if rows.Next() == false {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("не удалось обновить пару токенов: %w", err)
		}
		return ErrNotFound
	}

	if err := rows.Scan(&pair.Timestamp); err != nil {
		return fmt.Errorf("не удалось прочитать время обновления: %w", err)
	}

	return rows.Err()
}
