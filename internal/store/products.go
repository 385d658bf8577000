package store

import (
	"context"

	"github.com/eliteshop/storefront/internal/model"
)

// Products is the repository over KeyProducts
type Products struct {
	c collection[model.Product]
}

func (s *Store) Products() *Products {
	return &Products{c: collection[model.Product]{
		s:   s,
		key: KeyProducts,
		id:  func(p model.Product) string { return p.ID },
		def: DefaultProducts,
	}}
}

func (r *Products) List(ctx context.Context) ([]model.Product, error) {
	return r.c.list(ctx)
}

// Get returns nil when no product has id
func (r *Products) Get(ctx context.Context, id string) (*model.Product, error) {
	return r.c.find(ctx, id)
}

func (r *Products) Upsert(ctx context.Context, p model.Product) error {
	return r.c.upsert(ctx, p)
}

// DeleteByID removes the product; unknown ids are ignored
func (r *Products) DeleteByID(ctx context.Context, id string) error {
	return r.c.mutate(ctx, func(items []model.Product) ([]model.Product, bool, error) {
		i := r.c.index(items, id)
		if i < 0 {
			return items, false, nil
		}
		return append(items[:i], items[i+1:]...), true, nil
	})
}

func (r *Products) Mutate(ctx context.Context, fn func([]model.Product) ([]model.Product, bool, error)) error {
	return r.c.mutate(ctx, fn)
}
