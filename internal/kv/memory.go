package kv

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MemoryStore keeps values in process memory; nothing survives a restart
type MemoryStore struct {
	logger *zap.Logger
	mu     sync.RWMutex
	data   map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		logger: logger.Named("kv.memory"),
		data:   make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(v), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = cloneBytes(value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
