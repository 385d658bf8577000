package errorx

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryValidation     ErrorCategory = "validation"
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryAuthorization  ErrorCategory = "authorization"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryConflict       ErrorCategory = "conflict"
	CategoryInternal       ErrorCategory = "internal"
	CategoryRateLimit      ErrorCategory = "rate_limit"
)

// Severity represents the severity level of an error
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// APIError is the error body returned by the HTTP API
type APIError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Category   ErrorCategory  `json:"category"`
	Severity   Severity       `json:"severity"`
	HTTPStatus int            `json:"-"`
	MessageID  string         `json:"-"` // translation key
	Details    map[string]any `json:"details,omitempty"`
	TraceID    string         `json:"trace_id,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Category, e.Message)
}

// JSON returns the error as a JSON string
func (e *APIError) JSON() string {
	out, _ := json.Marshal(e)
	return string(out)
}

// Clone returns a copy that can be decorated without touching the shared value
func (e *APIError) Clone() *APIError {
	c := *e
	c.Details = maps.Clone(e.Details)
	return &c
}

// WithDetail returns a copy of the error carrying an extra detail
func (e *APIError) WithDetail(key string, value any) *APIError {
	c := e.Clone()
	if c.Details == nil {
		c.Details = make(map[string]any)
	}
	c.Details[key] = value
	return c
}

func newError(code, messageID, message string, category ErrorCategory, severity Severity, status int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		Category:   category,
		Severity:   severity,
		HTTPStatus: status,
		MessageID:  messageID,
	}
}

var (
	// Validation Errors (E1000-E1999)
	ErrInvalidInput = newError("E1001", "ErrorInvalidInput",
		"Some of the submitted fields are invalid", CategoryValidation, SeverityInfo, http.StatusBadRequest)
	ErrInvalidBody = newError("E1002", "ErrorInvalidBody",
		"The request body could not be read", CategoryValidation, SeverityInfo, http.StatusBadRequest)
	ErrProductIncomplete = newError("E1003", "ErrorProductIncomplete",
		"Title and image are required", CategoryValidation, SeverityInfo, http.StatusBadRequest)
	ErrCheckoutIncomplete = newError("E1004", "ErrorCheckoutIncomplete",
		"Roblox username, phone number and transaction id are required", CategoryValidation, SeverityInfo, http.StatusBadRequest)
	ErrAgreementRequired = newError("E1005", "ErrorAgreementRequired",
		"Purchase agreement must be accepted", CategoryValidation, SeverityInfo, http.StatusBadRequest)
	ErrInvalidPaymentMethod = newError("E1006", "ErrorInvalidPaymentMethod",
		"Invalid payment method", CategoryValidation, SeverityInfo, http.StatusBadRequest)
	ErrInvalidEventDate = newError("E1007", "ErrorInvalidEventDate",
		"Invalid event date", CategoryValidation, SeverityInfo, http.StatusBadRequest)
	ErrInvalidDiscount = newError("E1008", "ErrorInvalidDiscount",
		"Discount must be between 0 and 100", CategoryValidation, SeverityInfo, http.StatusBadRequest)
	ErrInvalidStatus = newError("E1009", "ErrorInvalidStatus",
		"Invalid order status", CategoryValidation, SeverityInfo, http.StatusBadRequest)
	ErrInvalidRole = newError("E1010", "ErrorInvalidRole",
		"Invalid role", CategoryValidation, SeverityInfo, http.StatusBadRequest)

	// Authentication Errors (E2000-E2999)
	ErrUnauthorized = newError("E2001", "ErrorUnauthorized",
		"Authentication required", CategoryAuthentication, SeverityInfo, http.StatusUnauthorized)
	ErrInvalidCredentials = newError("E2002", "ErrorInvalidCredentials",
		"Invalid credentials", CategoryAuthentication, SeverityWarning, http.StatusUnauthorized)
	ErrInvalidAdminCode = newError("E2003", "ErrorInvalidAdminCode",
		"Invalid admin security code", CategoryAuthentication, SeverityWarning, http.StatusUnauthorized)

	// Authorization Errors (E3000-E3999)
	ErrForbidden = newError("E3001", "ErrorForbidden",
		"Access denied", CategoryAuthorization, SeverityWarning, http.StatusForbidden)
	ErrMainAdminLocked = newError("E3002", "ErrorMainAdminLocked",
		"Main admin role can only be changed by a main admin", CategoryAuthorization, SeverityWarning, http.StatusForbidden)
	ErrAdminLocked = newError("E3003", "ErrorAdminLocked",
		"Admin console is locked", CategoryAuthorization, SeverityInfo, http.StatusForbidden)

	// Not Found Errors (E4000-E4089)
	ErrNotFound = newError("E4001", "ErrorNotFound",
		"Requested resource not found", CategoryNotFound, SeverityInfo, http.StatusNotFound)
	ErrProductUnavailable = newError("E4002", "ErrorProductUnavailable",
		"Product not available", CategoryNotFound, SeverityInfo, http.StatusNotFound)

	// Conflict Errors (E4090-E4099)
	ErrEmailExists = newError("E4091", "ErrorEmailExists",
		"Email already registered", CategoryConflict, SeverityInfo, http.StatusConflict)
	ErrLastMainAdmin = newError("E4092", "ErrorLastMainAdmin",
		"Cannot demote the last main admin", CategoryConflict, SeverityWarning, http.StatusConflict)
	ErrIllegalTransition = newError("E4093", "ErrorIllegalTransition",
		"Illegal order status transition", CategoryConflict, SeverityInfo, http.StatusConflict)

	// Rate Limiting Errors (E4290-E4299)
	ErrRateLimitExceeded = newError("E4291", "ErrorRateLimited",
		"Rate limit exceeded", CategoryRateLimit, SeverityWarning, http.StatusTooManyRequests)

	// Internal Server Errors (E5000-E5999)
	ErrServerPanic = newError("E5000", "ErrorServerPanic",
		"Server panic occurred", CategoryInternal, SeverityCritical, http.StatusInternalServerError)
	ErrInternalServer = newError("E5001", "ErrorInternalServer",
		"Internal server error occurred", CategoryInternal, SeverityCritical, http.StatusInternalServerError)
	ErrStoreUnavailable = newError("E5002", "ErrorStoreUnavailable",
		"Store is not initialized", CategoryInternal, SeverityError, http.StatusServiceUnavailable)
)
