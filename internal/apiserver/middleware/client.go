package middleware

import (
	"net/http"

	"github.com/eliteshop/storefront/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const clientCookieMaxAge = 365 * 24 * 60 * 60

type clientCookie struct {
	st     *store.Store
	name   string
	secure bool
}

func (cc clientCookie) set(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cc.name, id, clientCookieMaxAge, "/", "", cc.secure, true)
}

// ClientScope gives every browser its own session slot. The slot is keyed by
// a random id kept in a cookie; a missing or malformed cookie gets a new id.
func ClientScope(st *store.Store, cookieName string, secure bool) gin.HandlerFunc {
	cc := clientCookie{st: st, name: cookieName, secure: secure}
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			cc.set(c, id)
		}
		c.Set(ctxClient, cc)
		c.Set(ctxScope, st.SessionScope(id))
		c.Next()
	}
}

// RotateScope runs login against a brand new session slot. Only when login
// succeeds does the client cookie move to the new slot and the previous slot
// get cleared, so an id known before authentication never carries a login.
func RotateScope(c *gin.Context, login func(scope *store.Sessions) error) error {
	v, ok := c.Get(ctxClient)
	cc, _ := v.(clientCookie)
	if !ok || cc.st == nil {
		return login(Scope(c))
	}

	id := uuid.NewString()
	fresh := cc.st.SessionScope(id)
	if err := login(fresh); err != nil {
		return err
	}

	if old := Scope(c); old != nil {
		// the old slot never held this login, clearing it is housekeeping
		_ = old.Logout(c.Request.Context())
	}
	cc.set(c, id)
	c.Set(ctxScope, fresh)
	return nil
}
