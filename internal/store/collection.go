package store

import (
	"context"

	"go.uber.org/zap"
)

// collection is the shared list-shaped storage behind the Users, Products
// and Orders repositories
type collection[T any] struct {
	s   *Store
	key string
	id  func(T) string
	def func() []T
}

// load reads and decodes the collection without taking the write lock
func (c collection[T]) load(ctx context.Context) ([]T, Outcome, error) {
	raw, found, err := c.s.readRaw(ctx, c.key)
	if err != nil {
		return nil, Absent, err
	}
	items, outcome, derr := decode(raw, found, shapeArray, c.def)
	if outcome == Fallback {
		c.s.fallback(c.key, derr)
	}
	if items == nil {
		items = []T{}
	}
	return items, outcome, nil
}

func (c collection[T]) list(ctx context.Context) ([]T, error) {
	if err := c.s.ready(); err != nil {
		return nil, err
	}
	items, _, err := c.load(ctx)
	return items, err
}

func (c collection[T]) find(ctx context.Context, id string) (*T, error) {
	items, err := c.list(ctx)
	if err != nil {
		return nil, err
	}
	if i := c.index(items, id); i >= 0 {
		item := items[i]
		return &item, nil
	}
	return nil, nil
}

func (c collection[T]) index(items []T, id string) int {
	for i := range items {
		if c.id(items[i]) == id {
			return i
		}
	}
	return -1
}

// mutate runs fn over the current items under the store's write lock and
// persists the result. Nothing is written when fn fails or reports no change.
func (c collection[T]) mutate(ctx context.Context, fn func(items []T) ([]T, bool, error)) error {
	if err := c.s.ready(); err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	items, outcome, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, changed, err := fn(items)
	if err != nil || !changed {
		return err
	}
	if outcome == Fallback {
		c.s.logger.Warn("replacing unreadable value", zap.String("key", c.key))
	}
	if next == nil {
		next = []T{}
	}
	return c.s.writeJSON(ctx, c.key, next)
}

// upsert replaces the item with the same id in place or appends it
func (c collection[T]) upsert(ctx context.Context, item T) error {
	return c.mutate(ctx, func(items []T) ([]T, bool, error) {
		if i := c.index(items, c.id(item)); i >= 0 {
			items[i] = item
			return items, true, nil
		}
		return append(items, item), true, nil
	})
}
