package errorx

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/eliteshop/storefront/internal/i18n"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const traceIDKey = "trace_id"

// ErrorHandler provides unified error handling capabilities
type ErrorHandler struct {
	logger     *zap.Logger
	translator *i18n.I18n
	now        func() time.Time
}

// NewErrorHandler creates a new error handler. translator may be nil, in
// which case messages stay in English.
func NewErrorHandler(logger *zap.Logger, translator *i18n.I18n) *ErrorHandler {
	return &ErrorHandler{
		logger:     logger,
		translator: translator,
		now:        time.Now,
	}
}

// HandleError converts err to an APIError, logs it and writes the JSON response
func (h *ErrorHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := FromError(err)
	apiErr.TraceID = ExtractTraceID(c)
	apiErr.Timestamp = h.now().UTC().Format(time.RFC3339)
	if h.translator != nil && apiErr.MessageID != "" {
		apiErr.Message = h.translator.Translate(apiErr.MessageID, i18n.LangFromContext(c), nil)
	}

	h.logError(c, apiErr, err)

	c.AbortWithStatusJSON(apiErr.HTTPStatus, gin.H{
		"error": apiErr,
	})
}

// logError logs the error with appropriate context and stack trace
func (h *ErrorHandler) logError(c *gin.Context, apiErr *APIError, originalErr error) {
	fields := []zap.Field{
		zap.String("trace_id", apiErr.TraceID),
		zap.String("error_code", apiErr.Code),
		zap.String("category", string(apiErr.Category)),
		zap.Int("http_status", apiErr.HTTPStatus),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("client_ip", c.ClientIP()),
	}

	if originalErr != nil {
		fields = append(fields, zap.Error(originalErr))
	}

	if len(apiErr.Details) > 0 {
		detailsJSON, _ := json.Marshal(apiErr.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	switch apiErr.Severity {
	case SeverityInfo:
		h.logger.Debug("request rejected", fields...)
	case SeverityWarning:
		h.logger.Warn("request rejected", fields...)
	case SeverityCritical:
		buf := make([]byte, 1024*4)
		n := runtime.Stack(buf, false)
		fields = append(fields, zap.String("stack_trace", string(buf[:n])))
		h.logger.Error("request failed", fields...)
	default:
		h.logger.Error("request failed", fields...)
	}
}

// ErrorMiddleware renders the last error a handler attached with c.Error
func (h *ErrorHandler) ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			h.HandleError(c, c.Errors.Last().Err)
		}
	}
}

// RecoveryMiddleware returns a gin middleware for panic recovery
func (h *ErrorHandler) RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		h.HandleError(c, ErrServerPanic.WithDetail("panic", fmt.Sprintf("%v", err)))
	})
}

// NotFoundHandler answers unknown routes with an APIError body
func (h *ErrorHandler) NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.HandleError(c, ErrNotFound)
	}
}

// ExtractTraceID extracts trace ID from context or request
func ExtractTraceID(c *gin.Context) string {
	if traceID := c.GetString(traceIDKey); traceID != "" {
		return traceID
	}

	if traceID := c.GetHeader("X-Trace-Id"); traceID != "" {
		c.Set(traceIDKey, traceID)
		return traceID
	}

	traceID := uuid.New().String()
	c.Set(traceIDKey, traceID)
	return traceID
}
