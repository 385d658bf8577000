package handler

import (
	"github.com/eliteshop/storefront/internal/common/errorx"
	"github.com/eliteshop/storefront/internal/i18n"
	"github.com/eliteshop/storefront/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the storefront API on top of the service layer
type Handler struct {
	svc        *service.Service
	errors     *errorx.ErrorHandler
	translator *i18n.I18n
	logger     *zap.Logger
}

func New(svc *service.Service, eh *errorx.ErrorHandler, translator *i18n.I18n, logger *zap.Logger) *Handler {
	return &Handler{
		svc:        svc,
		errors:     eh,
		translator: translator,
		logger:     logger,
	}
}

// bind decodes the JSON body into v and renders ErrInvalidBody on failure
func (h *Handler) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.errors.HandleError(c, errorx.ErrInvalidBody.WithDetail("reason", err.Error()))
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.errors.HandleError(c, err)
}

// message localizes msgID for the caller's language
func (h *Handler) message(c *gin.Context, msgID string, data map[string]any) string {
	if h.translator == nil {
		return msgID
	}
	return h.translator.TranslateContext(c, msgID, data)
}
