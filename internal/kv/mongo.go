package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eliteshop/storefront/internal/common/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	defaultMongoDatabase   = "eliteshop"
	defaultMongoCollection = "kv_entries"
	defaultMongoTimeout    = 10 * time.Second
)

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps each key as a document whose _id is the key
type MongoStore struct {
	logger *zap.Logger
	client *mongo.Client
	coll   *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(ctx context.Context, logger *zap.Logger, cfg *config.MongoStorageConfig) (*MongoStore, error) {
	logger = logger.Named("kv.mongo")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = defaultMongoDatabase
	}
	collection := cfg.Collection
	if collection == "" {
		collection = defaultMongoCollection
	}

	logger.Info("Using mongo storage",
		zap.String("database", database),
		zap.String("collection", collection))

	return &MongoStore{
		logger: logger,
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	var entry mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"value": string(value), "updatedAt": time.Now()}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
