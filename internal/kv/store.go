package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get when the key holds no value
	ErrNotFound = errors.New("kv: key not found")
	// ErrInvalidKey is returned for empty keys or keys that could escape a namespace
	ErrInvalidKey = errors.New("kv: invalid key")
)

const maxKeyLength = 191

// Store is a durable string-keyed byte store. Writes are last-write-wins;
// implementations do not coordinate between processes.
type Store interface {
	// Get returns the raw value or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key, deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources
	Close() error
}

// ValidateKey rejects keys that are empty, too long, or contain path elements
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case len(key) > maxKeyLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, maxKeyLength)
	case strings.ContainsAny(key, `/\`), strings.Contains(key, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
