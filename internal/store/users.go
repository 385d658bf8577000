package store

import (
	"context"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/pkg/utils"
)

// Users is the repository over KeyUsers. Users are never deleted.
type Users struct {
	c collection[model.User]
}

func (s *Store) Users() *Users {
	return &Users{c: collection[model.User]{
		s:   s,
		key: KeyUsers,
		id:  func(u model.User) string { return u.ID },
		def: func() []model.User { return []model.User{} },
	}}
}

// List returns every user in insertion order
func (r *Users) List(ctx context.Context) ([]model.User, error) {
	return r.c.list(ctx)
}

// FindByID returns nil when no user has id
func (r *Users) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.c.find(ctx, id)
}

// FindByEmail matches case-insensitively
func (r *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.c.list(ctx)
	if err != nil {
		return nil, err
	}
	if i := findUserByEmail(users, email); i >= 0 {
		return &users[i], nil
	}
	return nil, nil
}

// FindByIdentifier returns the users whose email or username equals
// identifier, ignoring case, in list order
func (r *Users) FindByIdentifier(ctx context.Context, identifier string) ([]model.User, error) {
	users, err := r.c.list(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.User
	for _, u := range users {
		if utils.EqualFold(u.Email, identifier) || utils.EqualFold(u.Username, identifier) {
			out = append(out, u)
		}
	}
	return out, nil
}

// Upsert replaces the user with the same id, keeping its position, or appends.
// An email already held by another user, ignoring case, is rejected with
// cnst.ErrEmailExists and nothing is written.
func (r *Users) Upsert(ctx context.Context, u model.User) error {
	return r.c.mutate(ctx, func(users []model.User) ([]model.User, bool, error) {
		if u.Email != "" {
			if i := findUserByEmail(users, u.Email); i >= 0 && users[i].ID != u.ID {
				return users, false, cnst.ErrEmailExists
			}
		}
		if i := findUserByID(users, u.ID); i >= 0 {
			users[i] = u
			return users, true, nil
		}
		return append(users, u), true, nil
	})
}

// Mutate runs fn against the current users under the write lock. The
// returned slice is stored only when fn reports a change and no error.
func (r *Users) Mutate(ctx context.Context, fn func([]model.User) ([]model.User, bool, error)) error {
	return r.c.mutate(ctx, fn)
}

func (s *Store) readUsers(ctx context.Context) ([]model.User, Outcome, error) {
	return s.Users().c.load(ctx)
}

func findUserByEmail(users []model.User, email string) int {
	for i := range users {
		if utils.EqualFold(users[i].Email, email) {
			return i
		}
	}
	return -1
}

func findUserByID(users []model.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
