package handler

import (
	"net/http"

	"github.com/eliteshop/storefront/internal/service"
	"github.com/gin-gonic/gin"
)

// Storefront returns the site settings with the running events
func (h *Handler) Storefront(c *gin.Context) {
	sf, err := h.svc.Storefront(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sf)
}

// Catalog lists active products with their event prices
func (h *Handler) Catalog(c *gin.Context) {
	items, err := h.svc.Catalog(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": items})
}

func (h *Handler) Quote(c *gin.Context) {
	var req service.QuoteInput
	if !h.bind(c, &req) {
		return
	}
	q, err := h.svc.Quote(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) PaymentInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"accounts": h.svc.PaymentInfo()})
}

// Healthz reports whether the store finished initializing
func (h *Handler) Healthz(c *gin.Context) {
	if !h.svc.Store().Initialized() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "initializing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
