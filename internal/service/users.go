package service

import (
	"context"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/model"

	"go.uber.org/zap"
)

// ListUsers returns every account without credentials
func (s *Service) ListUsers(ctx context.Context, actor *model.User) ([]model.PublicUser, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// UpdateUserRole changes the role of userID. Only a main admin may touch a
// main admin or grant the role, and the last main admin cannot be demoted.
// Unknown ids are ignored and reported as not found.
func (s *Service) UpdateUserRole(ctx context.Context, actor *model.User, userID string, role model.Role) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	if !role.Valid() {
		return false, cnst.ErrInvalidRole
	}
	if role == model.RoleMainAdmin && actor.Role != model.RoleMainAdmin {
		return false, cnst.ErrMainAdminLocked
	}

	found := false
	err := s.store.Users().Mutate(ctx, func(users []model.User) ([]model.User, bool, error) {
		idx, mainAdmins := -1, 0
		for i := range users {
			if users[i].ID == userID {
				idx = i
			}
			if users[i].Role == model.RoleMainAdmin {
				mainAdmins++
			}
		}
		if idx < 0 {
			return users, false, nil
		}
		found = true

		target := &users[idx]
		if target.Role == role {
			return users, false, nil
		}
		if target.Role == model.RoleMainAdmin {
			if actor.Role != model.RoleMainAdmin {
				return users, false, cnst.ErrMainAdminLocked
			}
			if mainAdmins <= 1 {
				return users, false, cnst.ErrLastMainAdmin
			}
		}
		target.Role = role
		return users, true, nil
	})
	if err != nil {
		return found, err
	}
	if found {
		s.logger.Info("user role updated",
			zap.String("actor", actor.ID),
			zap.String("id", userID),
			zap.String("role", string(role)))
	}
	return found, nil
}
