package repository

import (
	"GoRideShare/internal/model"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultMongoDatabase = "gorideshare"

type MongoTokenRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	clock      func() time.Time
}

// NewMongoTokenRepository подключается, проверяет соединение и создает уникальный индекс (partition_key, row_key).
// Имя БД берется из пути URI.
func NewMongoTokenRepository(ctx context.Context, uri string, collection string) (*MongoTokenRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ошибка пинга mongo: %w", err)
	}

	repository := &MongoTokenRepository{
		client:     client,
		collection: client.Database(databaseFromURI(uri)).Collection(collection),
		clock:      time.Now,
	}

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "partition_key", Value: 1}, {Key: "row_key", Value: 1}},
		Options: options.Index().SetName("partition_row_unique").SetUnique(true),
	}
	if _, err := repository.collection.Indexes().CreateOne(ctx, index); err != nil {
		_ = repository.Close(context.Background())
		return nil, fmt.Errorf("ошибка создания индекса: %w", err)
	}

	return repository, nil
}

func (repository *MongoTokenRepository) Close(ctx context.Context) error {
	return repository.client.Disconnect(ctx)
}

func (repository *MongoTokenRepository) Ping(ctx context.Context) error {
	return repository.client.Ping(ctx, readpref.Primary())
}

func (repository *MongoTokenRepository) ListByUser(ctx context.Context, userID string) ([]model.TokenPair, error) {
	cursor, err := repository.collection.Find(ctx,
		bson.M{"partition_key": userID},
		options.Find().SetSort(bson.D{{Key: "row_key", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения пар токенов: %w", err)
	}

	pairs := []model.TokenPair{}
	if err := cursor.All(ctx, &pairs); err != nil {
		return nil, fmt.Errorf("ошибка разбора пар токенов: %w", err)
	}

	return pairs, nil
}

func (repository *MongoTokenRepository) Insert(ctx context.Context, pair *model.TokenPair) error {
	pair.Timestamp = repository.clock().UTC()

	if _, err := repository.collection.InsertOne(ctx, pair); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("ошибка вставки пары токенов: %w", err)
	}

	return nil
}

func (repository *MongoTokenRepository) Replace(ctx context.Context, pair *model.TokenPair) error {
	pair.Timestamp = repository.clock().UTC()

	result, err := repository.collection.UpdateOne(ctx,
		bson.M{"partition_key": pair.UserID, "row_key": pair.Slot},
		bson.M{"$set": bson.M{
			"logic_token": pair.LogicToken,
			"db_token":    pair.DbToken,
			"updated_at":  pair.Timestamp,
		}},
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления пары токенов: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func databaseFromURI(uri string) string {
	parsed, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(parsed.Path, "/"); name != "" {
			return name
		}
	}
	return defaultMongoDatabase
}
