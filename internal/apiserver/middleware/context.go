package middleware

import (
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/store"
	"github.com/gin-gonic/gin"
)

const (
	ctxClient = "client_cookie"
	ctxScope  = "session_scope"
	ctxUser   = "user"
)

// Scope returns the session of the calling client set by ClientScope
func Scope(c *gin.Context) *store.Sessions {
	if v, ok := c.Get(ctxScope); ok {
		if s, ok := v.(*store.Sessions); ok {
			return s
		}
	}
	return nil
}

// User returns the user resolved by RequireUser, nil outside of it
func User(c *gin.Context) *model.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}
