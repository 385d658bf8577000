package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eliteshop/storefront/internal/common/config"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is one row of the kv_entries table
type Entry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:191"`
	Value     string `gorm:"column:entry_value"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

// DBStore keeps every key as a row in a relational database
type DBStore struct {
	logger *zap.Logger
	db     *gorm.DB
}

var _ Store = (*DBStore)(nil)

// NewDBStore opens the configured database and migrates the kv_entries table
func NewDBStore(logger *zap.Logger, cfg *config.DatabaseConfig) (*DBStore, error) {
	logger = logger.Named("kv.db")

	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "mysql":
		dialector = mysql.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Using database storage", zap.String("type", cfg.Type))
	return &DBStore{
		logger: logger,
		db:     db,
	}, nil
}

func (s *DBStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	var entry Entry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (s *DBStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	entry := Entry{Key: key, Value: string(value), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *DBStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
}

func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
