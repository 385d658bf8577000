package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const diskExt = ".json"

// DiskStore keeps one file per key under baseDir
type DiskStore struct {
	logger  *zap.Logger
	baseDir string
	mu      sync.RWMutex
}

var _ Store = (*DiskStore)(nil)

func NewDiskStore(logger *zap.Logger, baseDir string) (*DiskStore, error) {
	logger = logger.Named("kv.disk")
	if baseDir == "" {
		return nil, errors.New("disk storage path is empty")
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	logger.Info("Using storage directory", zap.String("path", abs))

	return &DiskStore{
		logger:  logger,
		baseDir: abs,
	}, nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.baseDir, key+diskExt)
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set writes to a temp file in the same directory and renames it over the
// target, so a crash never leaves a half-written value behind.
func (s *DiskStore) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, "."+key+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path(key))
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DiskStore) Close() error { return nil }
