package cnst

import "errors"

var (
	// ErrInvalidCredentials is returned when no user matches the identifier and password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailExists is returned when signing up with an email already registered
	ErrEmailExists = errors.New("email already registered")
	// ErrMainAdminLocked is returned when a non main admin tries to change a main admin's role
	ErrMainAdminLocked = errors.New("main admin role can only be changed by a main admin")
	// ErrLastMainAdmin is returned when a role change would leave no main admin
	ErrLastMainAdmin = errors.New("cannot demote the last main admin")

	ErrInvalidEventDate  = errors.New("invalid event date")
	ErrInvalidDiscount   = errors.New("discount must be between 0 and 100")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrIllegalTransition = errors.New("illegal order status transition")
	ErrInvalidRole       = errors.New("invalid role")

	// ErrInvalidInput wraps request fields that fail validation
	ErrInvalidInput = errors.New("invalid input")

	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidAdminCode = errors.New("invalid admin security code")

	// ErrProductIncomplete is returned when a product has no title or image
	ErrProductIncomplete  = errors.New("product title and image are required")
	ErrProductUnavailable = errors.New("product not available")

	ErrCheckoutIncomplete   = errors.New("roblox username, phone number and transaction id are required")
	ErrAgreementRequired    = errors.New("purchase agreement must be accepted")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)
