package kv

import (
	"context"
	"fmt"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/common/config"

	"go.uber.org/zap"
)

// NewStore creates the backend selected by cfg.Type
func NewStore(ctx context.Context, logger *zap.Logger, cfg *config.StorageConfig) (Store, error) {
	logger.Info("Initializing storage", zap.String("type", cfg.Type))
	switch cfg.Type {
	case cnst.StorageTypeMemory:
		return NewMemoryStore(logger), nil
	case cnst.StorageTypeDisk:
		return NewDiskStore(logger, cfg.Disk.Path)
	case cnst.StorageTypeRedis:
		return NewRedisStore(ctx, logger, &cfg.Redis)
	case cnst.StorageTypeDB:
		return NewDBStore(logger, &cfg.Database)
	case cnst.StorageTypeMongo:
		return NewMongoStore(ctx, logger, &cfg.Mongo)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
