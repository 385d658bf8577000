package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/eliteshop/storefront/internal/apiserver/middleware"
	"github.com/eliteshop/storefront/internal/common/errorx"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/report"
	"github.com/eliteshop/storefront/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// PlaceOrder checks out the session user's cart of one product
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req service.CheckoutInput
	if !h.bind(c, &req) {
		return
	}
	order, err := h.svc.PlaceOrder(c.Request.Context(), middleware.Scope(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order":   order,
		"message": h.message(c, "OrderPlaced", map[string]any{"OrderID": order.ID, "Total": order.TotalPrice}),
	})
}

func (h *Handler) MyOrders(c *gin.Context) {
	orders, err := h.svc.MyOrders(c.Request.Context(), middleware.Scope(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) AllOrders(c *gin.Context) {
	orders, err := h.svc.AllOrders(c.Request.Context(), middleware.User(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if !h.bind(c, &req) {
		return
	}
	id := c.Param("id")
	found, err := h.svc.UpdateOrderStatus(c.Request.Context(), middleware.User(c), id, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		h.fail(c, errorx.ErrNotFound.WithDetail("order", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// ExportOrders downloads every order as a spreadsheet
func (h *Handler) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ExportOrders(c.Request.Context(), middleware.User(c), &buf); err != nil {
		h.fail(c, err)
		return
	}
	name := fmt.Sprintf("orders-%s.xlsx", h.svc.Store().Clock().Now().In(h.svc.Location()).Format("20060102-1504"))
	h.logger.Info("orders exported", zap.String("file", name), zap.Int("bytes", buf.Len()))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}
