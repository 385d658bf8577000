package store

import (
	"context"

	"github.com/eliteshop/storefront/internal/model"
)

// Orders is the repository over KeyOrders. The list is kept newest first.
type Orders struct {
	c collection[model.Order]
}

func (s *Store) Orders() *Orders {
	return &Orders{c: collection[model.Order]{
		s:   s,
		key: KeyOrders,
		id:  func(o model.Order) string { return o.ID },
		def: func() []model.Order { return []model.Order{} },
	}}
}

// List returns every order, newest first
func (r *Orders) List(ctx context.Context) ([]model.Order, error) {
	return r.c.list(ctx)
}

// ListByUser keeps the stored order
func (r *Orders) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := r.c.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0)
	for _, o := range orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *Orders) Get(ctx context.Context, id string) (*model.Order, error) {
	return r.c.find(ctx, id)
}

// Save inserts o at the front of the list
func (r *Orders) Save(ctx context.Context, o model.Order) error {
	return r.c.mutate(ctx, func(items []model.Order) ([]model.Order, bool, error) {
		return append([]model.Order{o}, items...), true, nil
	})
}

// Upsert replaces an order with the same id in place, or inserts it at the front
func (r *Orders) Upsert(ctx context.Context, o model.Order) error {
	return r.c.mutate(ctx, func(items []model.Order) ([]model.Order, bool, error) {
		if i := r.c.index(items, o.ID); i >= 0 {
			items[i] = o
			return items, true, nil
		}
		return append([]model.Order{o}, items...), true, nil
	})
}

// UpdateStatus rewrites only the status field of the matching order and
// reports whether one matched
func (r *Orders) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (bool, error) {
	found := false
	err := r.c.mutate(ctx, func(items []model.Order) ([]model.Order, bool, error) {
		i := r.c.index(items, id)
		if i < 0 {
			return items, false, nil
		}
		found = true
		items[i].Status = status
		return items, true, nil
	})
	return found, err
}

func (r *Orders) Mutate(ctx context.Context, fn func([]model.Order) ([]model.Order, bool, error)) error {
	return r.c.mutate(ctx, fn)
}
