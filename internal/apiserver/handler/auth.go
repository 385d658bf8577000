package handler

import (
	"net/http"

	"github.com/eliteshop/storefront/internal/apiserver/middleware"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/service"
	"github.com/eliteshop/storefront/internal/store"
	"github.com/gin-gonic/gin"
)

type unlockRequest struct {
	Code string `json:"code"`
}

func (h *Handler) userResponse(c *gin.Context, status int, u *model.User) {
	c.JSON(status, gin.H{
		"user":    u.Public(),
		"message": h.message(c, "WelcomeUser", map[string]any{"Name": u.Username}),
	})
}

// SignUp creates an account and logs the client in
func (h *Handler) SignUp(c *gin.Context) {
	var req service.SignUpInput
	if !h.bind(c, &req) {
		return
	}
	var user *model.User
	err := middleware.RotateScope(c, func(scope *store.Sessions) error {
		var err error
		user, err = h.svc.SignUp(c.Request.Context(), scope, req)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.userResponse(c, http.StatusCreated, user)
}

// Login accepts an email or username with a password
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if !h.bind(c, &req) {
		return
	}
	var user *model.User
	err := middleware.RotateScope(c, func(scope *store.Sessions) error {
		var err error
		user, err = h.svc.Login(c.Request.Context(), scope, req)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.userResponse(c, http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.Scope(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the session user, or null when logged out
func (h *Handler) Me(c *gin.Context) {
	user, err := h.svc.CurrentUser(c.Request.Context(), middleware.Scope(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

// UnlockAdmin trades the admin security code for a gate token
func (h *Handler) UnlockAdmin(c *gin.Context) {
	var req unlockRequest
	if !h.bind(c, &req) {
		return
	}
	token, err := h.svc.UnlockAdmin(c.Request.Context(), middleware.User(c), req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
