package repository

import (
	"GoRideShare/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// replaceScript перезаписывает поле только если слот уже существует.
var replaceScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

// RedisTokenRepository хранит пары пользователя в одном hash: ключ "<table>:<userId>", поле - номер слота.
type RedisTokenRepository struct {
	rdb    *redis.Client
	prefix string
	clock  func() time.Time
}

// NewRedisClient создает клиент из URL (redis://:pass@host:6379/0) и сразу проверяет соединение.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора адреса redis: %w", err)
	}

	rdb := redis.NewClient(options)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ошибка пинга redis: %w", err)
	}

	return rdb, nil
}

func NewRedisTokenRepository(rdb *redis.Client, table string) *RedisTokenRepository {
	return &RedisTokenRepository{rdb: rdb, prefix: table + ":", clock: time.Now}
}

func (repository *RedisTokenRepository) key(userID string) string {
	return repository.prefix + userID
}

func (repository *RedisTokenRepository) ListByUser(ctx context.Context, userID string) ([]model.TokenPair, error) {
	fields, err := repository.rdb.HGetAll(ctx, repository.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения пар токенов: %w", err)
	}

	pairs := make([]model.TokenPair, 0, len(fields))
	for slot, raw := range fields {
		var pair model.TokenPair
		if err := json.Unmarshal([]byte(raw), &pair); err != nil {
			return nil, fmt.Errorf("поврежденная запись слота %s: %w", slot, err)
		}
		pair.UserID = userID
		pair.Slot = slot
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Slot < pairs[j].Slot })

	return pairs, nil
}

func (repository *RedisTokenRepository) Insert(ctx context.Context, pair *model.TokenPair) error {
	raw, err := repository.encode(pair)
	if err != nil {
		return err
	}

	created, err := repository.rdb.HSetNX(ctx, repository.key(pair.UserID), pair.Slot, raw).Result()
	if err != nil {
		return fmt.Errorf("ошибка записи пары токенов: %w", err)
	}
	if created == false {
		return ErrAlreadyExists
	}

	return nil
}

func (repository *RedisTokenRepository) Replace(ctx context.Context, pair *model.TokenPair) error {
	raw, err := repository.encode(pair)
	if err != nil {
		return err
	}

	replaced, err := replaceScript.Run(ctx, repository.rdb, []string{repository.key(pair.UserID)}, pair.Slot, raw).Int()
	if err != nil {
		return fmt.Errorf("ошибка обновления пары токенов: %w", err)
	}
	if replaced == 0 {
		return ErrNotFound
	}

	return nil
}

func (repository *RedisTokenRepository) encode(pair *model.TokenPair) ([]byte, error) {
	pair.Timestamp = repository.clock().UTC()

	raw, err := json.Marshal(pair)
	if err != nil {
		return nil, fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	return raw, nil
}
