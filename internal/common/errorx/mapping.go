package errorx

import (
	"errors"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/store"
)

var sentinels = []struct {
	err error
	api *APIError
}{
	{cnst.ErrInvalidInput, ErrInvalidInput},
	{cnst.ErrProductIncomplete, ErrProductIncomplete},
	{cnst.ErrCheckoutIncomplete, ErrCheckoutIncomplete},
	{cnst.ErrAgreementRequired, ErrAgreementRequired},
	{cnst.ErrInvalidPaymentMethod, ErrInvalidPaymentMethod},
	{cnst.ErrInvalidEventDate, ErrInvalidEventDate},
	{cnst.ErrInvalidDiscount, ErrInvalidDiscount},
	{cnst.ErrInvalidStatus, ErrInvalidStatus},
	{cnst.ErrInvalidRole, ErrInvalidRole},
	{cnst.ErrNotAuthenticated, ErrUnauthorized},
	{cnst.ErrInvalidCredentials, ErrInvalidCredentials},
	{cnst.ErrInvalidAdminCode, ErrInvalidAdminCode},
	{cnst.ErrForbidden, ErrForbidden},
	{cnst.ErrMainAdminLocked, ErrMainAdminLocked},
	{cnst.ErrProductUnavailable, ErrProductUnavailable},
	{cnst.ErrEmailExists, ErrEmailExists},
	{cnst.ErrLastMainAdmin, ErrLastMainAdmin},
	{cnst.ErrIllegalTransition, ErrIllegalTransition},
	{store.ErrNotInitialized, ErrStoreUnavailable},
}

// FromError converts any error into a fresh APIError. Domain errors keep
// their own code, anything unknown becomes an internal error.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Clone()
	}

	for _, s := range sentinels {
		if !errors.Is(err, s.err) {
			continue
		}
		out := s.api.Clone()
		// wrapped validation errors name the offending field
		if out.Category == CategoryValidation && err.Error() != s.err.Error() {
			out = out.WithDetail("reason", err.Error())
		}
		return out
	}

	return ErrInternalServer.Clone()
}
