package handler

import (
	"context"
	"net/http"

	"github.com/eliteshop/storefront/internal/apiserver/middleware"
	"github.com/eliteshop/storefront/internal/common/errorx"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/service"
	"github.com/gin-gonic/gin"
)

type roleRequest struct {
	Role model.Role `json:"role"`
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context(), middleware.User(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) UpdateUserRole(c *gin.Context) {
	var req roleRequest
	if !h.bind(c, &req) {
		return
	}
	id := c.Param("id")
	found, err := h.svc.UpdateUserRole(c.Request.Context(), middleware.User(c), id, req.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		h.fail(c, errorx.ErrNotFound.WithDetail("user", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
}

// ListProducts includes inactive products
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context(), middleware.User(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if !h.bind(c, &req) {
		return
	}
	req.ID = ""
	h.saveProduct(c, http.StatusCreated, req)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var req service.ProductInput
	if !h.bind(c, &req) {
		return
	}
	req.ID = c.Param("id")
	h.saveProduct(c, http.StatusOK, req)
}

func (h *Handler) saveProduct(c *gin.Context, status int, req service.ProductInput) {
	p, err := h.svc.SaveProduct(c.Request.Context(), middleware.User(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, p)
}

func (h *Handler) ToggleProduct(c *gin.Context) {
	h.toggle(c, "product", h.svc.ToggleProduct)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), middleware.User(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.svc.ListEvents(c.Request.Context(), middleware.User(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// BroadcastEvent starts a discount event
func (h *Handler) BroadcastEvent(c *gin.Context) {
	var req service.EventInput
	if !h.bind(c, &req) {
		return
	}
	e, err := h.svc.BroadcastEvent(c.Request.Context(), middleware.User(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) ToggleEvent(c *gin.Context) {
	h.toggle(c, "event", h.svc.ToggleEvent)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	id := c.Param("id")
	found, err := h.svc.DeleteEvent(c.Request.Context(), middleware.User(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		h.fail(c, errorx.ErrNotFound.WithDetail("event", id))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req service.SettingsInput
	if !h.bind(c, &req) {
		return
	}
	settings, err := h.svc.UpdateSettings(c.Request.Context(), middleware.User(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type toggleFunc func(ctx context.Context, actor *model.User, id string) (bool, error)

func (h *Handler) toggle(c *gin.Context, kind string, fn toggleFunc) {
	id := c.Param("id")
	found, err := fn(c.Request.Context(), middleware.User(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		h.fail(c, errorx.ErrNotFound.WithDetail(kind, id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}
