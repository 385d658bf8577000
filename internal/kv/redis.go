package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/eliteshop/storefront/internal/common/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps each key as a plain redis string under an optional prefix
type RedisStore struct {
	logger *zap.Logger
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to redis and verifies the connection with a ping
func NewRedisStore(ctx context.Context, logger *zap.Logger, cfg *config.RedisStorageConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(logger, client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(logger *zap.Logger, client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		logger: logger.Named("kv.redis"),
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
