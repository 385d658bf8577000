package store

import (
	"context"

	"github.com/eliteshop/storefront/internal/kv"
	"github.com/eliteshop/storefront/internal/model"
)

// Sessions tracks the authenticated user of one client. The stored pointer
// is always re-resolved against Users before it is trusted.
type Sessions struct {
	s   *Store
	key string
}

// Sessions returns the process-wide session
func (s *Store) Sessions() *Sessions {
	return &Sessions{s: s, key: KeySession}
}

// SessionScope returns the session of one client. An empty or unusable
// client id falls back to the process-wide session.
func (s *Store) SessionScope(clientID string) *Sessions {
	if clientID == "" {
		return s.Sessions()
	}
	key := KeySession + "." + clientID
	if kv.ValidateKey(key) != nil {
		return s.Sessions()
	}
	return &Sessions{s: s, key: key}
}

func (r *Sessions) Key() string { return r.key }

// Login points the session at user
func (r *Sessions) Login(ctx context.Context, user model.User) error {
	if err := r.s.ready(); err != nil {
		return err
	}
	return r.s.writeJSON(ctx, r.key, model.Session{
		UserID:     user.ID,
		LoggedInAt: r.s.clock.Now().UnixMilli(),
	})
}

func (r *Sessions) Logout(ctx context.Context) error {
	if err := r.s.ready(); err != nil {
		return err
	}
	return r.s.kv.Delete(ctx, r.key)
}

// CurrentUser returns nil when there is no session or it no longer resolves
// to a stored user
func (r *Sessions) CurrentUser(ctx context.Context) (*model.User, error) {
	if err := r.s.ready(); err != nil {
		return nil, err
	}

	raw, found, err := r.s.readRaw(ctx, r.key)
	if err != nil {
		return nil, err
	}
	session, outcome, derr := decode(raw, found, shapeObject, func() model.Session { return model.Session{} })
	if outcome == Fallback {
		r.s.fallback(r.key, derr)
	}
	if session.UserID == "" {
		return nil, nil
	}
	return r.s.Users().FindByID(ctx, session.UserID)
}
