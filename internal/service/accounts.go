package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/eliteshop/storefront/internal/auth/jwt"
	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/store"
	"github.com/eliteshop/storefront/pkg/trace"
	"github.com/eliteshop/storefront/pkg/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const userIDAttempts = 5

// SignUp registers a user and logs them into scope. The first account in an
// empty user list becomes main_admin.
func (s *Service) SignUp(ctx context.Context, scope *store.Sessions, in SignUpInput) (*model.User, error) {
	span := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanSignUp)
	defer span.End()
	ctx = span.Ctx

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate(in, cnst.ErrInvalidInput); err != nil {
		s.metrics.AuthAttempt("signup", false)
		return nil, err
	}

	hash, err := s.store.Hasher().Hash(in.Password)
	if err != nil {
		span.Fail(err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var created model.User
	err = s.store.Users().Mutate(ctx, func(users []model.User) ([]model.User, bool, error) {
		for _, u := range users {
			if utils.EqualFold(u.Email, in.Email) {
				return users, false, cnst.ErrEmailExists
			}
		}

		role := model.RoleUser
		if len(users) == 0 {
			role = model.RoleMainAdmin
		}
		created = model.User{
			ID:           newUserID(users),
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    s.now().UnixMilli(),
		}
		return append(users, created), true, nil
	})
	if err != nil {
		s.metrics.AuthAttempt("signup", false)
		if !errors.Is(err, cnst.ErrEmailExists) {
			span.Fail(err)
		}
		return nil, err
	}
	span.WithAttrs(attribute.String(cnst.AttrUserID, created.ID))

	if err := scope.Login(ctx, created); err != nil {
		span.Fail(err)
		return nil, err
	}
	s.metrics.AuthAttempt("signup", true)
	s.logger.Info("user signed up", zap.String("id", created.ID), zap.String("role", string(created.Role)))
	return &created, nil
}

func newUserID(users []model.User) string {
	taken := make(map[string]struct{}, len(users))
	for _, u := range users {
		taken[u.ID] = struct{}{}
	}
	id := "U-" + utils.RandomCode(9)
	for i := 0; i < userIDAttempts; i++ {
		if _, ok := taken[id]; !ok {
			return id
		}
		id = "U-" + utils.RandomCode(9)
	}
	return utils.GenerateID("U")
}

// Login matches identifier against email or username, ignoring case, and
// checks the password of each match in list order. Legacy plaintext
// credentials are rehashed on success.
func (s *Service) Login(ctx context.Context, scope *store.Sessions, in LoginInput) (*model.User, error) {
	span := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanLogin)
	defer span.End()
	ctx = span.Ctx

	in.Identifier = strings.TrimSpace(in.Identifier)
	if err := s.validate(in, cnst.ErrInvalidCredentials); err != nil {
		s.metrics.AuthAttempt("login", false)
		return nil, cnst.ErrInvalidCredentials
	}

	candidates, err := s.store.Users().FindByIdentifier(ctx, in.Identifier)
	if err != nil {
		span.Fail(err)
		return nil, err
	}

	hasher := s.store.Hasher()
	var user *model.User
	for i := range candidates {
		if hasher.Verify(candidates[i].PasswordHash, in.Password) {
			user = &candidates[i]
			break
		}
	}
	if user == nil {
		s.metrics.AuthAttempt("login", false)
		return nil, cnst.ErrInvalidCredentials
	}
	span.WithAttrs(attribute.String(cnst.AttrUserID, user.ID))

	if hasher.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, *user, in.Password)
	}

	if err := scope.Login(ctx, *user); err != nil {
		span.Fail(err)
		return nil, err
	}
	s.metrics.AuthAttempt("login", true)
	return user, nil
}

// upgradeHash replaces a legacy credential. A failure only costs the upgrade.
func (s *Service) upgradeHash(ctx context.Context, user model.User, password string) {
	hash, err := s.store.Hasher().Hash(password)
	if err != nil {
		s.logger.Warn("failed to rehash legacy password", zap.String("id", user.ID), zap.Error(err))
		return
	}
	err = s.store.Users().Mutate(ctx, func(users []model.User) ([]model.User, bool, error) {
		for i := range users {
			if users[i].ID == user.ID && users[i].PasswordHash == user.PasswordHash {
				users[i].PasswordHash = hash
				return users, true, nil
			}
		}
		return users, false, nil
	})
	if err != nil {
		s.logger.Warn("failed to store rehashed password", zap.String("id", user.ID), zap.Error(err))
		return
	}
	s.logger.Info("upgraded legacy password", zap.String("id", user.ID))
}

func (s *Service) Logout(ctx context.Context, scope *store.Sessions) error {
	return scope.Logout(ctx)
}

// CurrentUser returns nil when scope has no valid session
func (s *Service) CurrentUser(ctx context.Context, scope *store.Sessions) (*model.User, error) {
	return scope.CurrentUser(ctx)
}

// RequireUser is CurrentUser that fails with ErrNotAuthenticated
func (s *Service) RequireUser(ctx context.Context, scope *store.Sessions) (*model.User, error) {
	u, err := scope.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, cnst.ErrNotAuthenticated
	}
	return u, nil
}

// UnlockAdmin checks the admin security code for an admin actor and returns
// a gate token bound to that actor
func (s *Service) UnlockAdmin(ctx context.Context, actor *model.User, code string) (string, error) {
	if err := requireAdmin(actor); err != nil {
		return "", err
	}
	if s.adminCode == "" || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(s.adminCode)) != 1 {
		s.metrics.AuthAttempt("admin_code", false)
		s.logger.Warn("admin code rejected", zap.String("id", actor.ID))
		return "", cnst.ErrInvalidAdminCode
	}
	s.metrics.AuthAttempt("admin_code", true)
	if s.tokens == nil {
		return "", nil
	}
	return s.tokens.GenerateToken(actor.ID, string(actor.Role))
}

// AdminGateEnabled reports whether admin operations need a gate token
func (s *Service) AdminGateEnabled() bool { return s.tokens != nil }

// VerifyAdminToken checks that token was issued to actor by UnlockAdmin
func (s *Service) VerifyAdminToken(actor *model.User, token string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if s.tokens == nil {
		return nil
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return fmt.Errorf("%w: admin session expired", cnst.ErrForbidden)
		}
		return cnst.ErrForbidden
	}
	if claims.UserID != actor.ID {
		return cnst.ErrForbidden
	}
	return nil
}
