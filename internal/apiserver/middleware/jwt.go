package middleware

import (
	"context"
	"strings"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/common/errorx"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/store"
	"github.com/gin-gonic/gin"
)

// Accounts resolves the caller of a request
type Accounts interface {
	RequireUser(ctx context.Context, scope *store.Sessions) (*model.User, error)
}

// AdminGate checks the token issued after the admin security code
type AdminGate interface {
	AdminGateEnabled() bool
	VerifyAdminToken(actor *model.User, token string) error
}

// RequireUser rejects requests whose client session does not resolve to a
// stored user
func RequireUser(accounts Accounts, eh *errorx.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := Scope(c)
		if scope == nil {
			eh.HandleError(c, cnst.ErrNotAuthenticated)
			return
		}
		user, err := accounts.RequireUser(c.Request.Context(), scope)
		if err != nil {
			eh.HandleError(c, err)
			return
		}
		c.Set(ctxUser, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireUser. When the gate is enabled the
// request also carries the unlock token as a Bearer credential.
func RequireAdmin(gate AdminGate, eh *errorx.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := User(c)
		if user == nil {
			eh.HandleError(c, cnst.ErrNotAuthenticated)
			return
		}
		if !user.Role.IsAdmin() {
			eh.HandleError(c, cnst.ErrForbidden)
			return
		}
		if !gate.AdminGateEnabled() {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			eh.HandleError(c, errorx.ErrAdminLocked)
			return
		}
		if err := gate.VerifyAdminToken(user, token); err != nil {
			eh.HandleError(c, errorx.ErrAdminLocked.WithDetail("reason", err.Error()))
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
