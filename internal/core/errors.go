package core

import "errors"

// Error taxonomy. Callers match with errors.Is; the HTTP adapter owns the
// single mapping from these sentinels to response statuses.
var (
	// ErrNotFound covers absent users, products, orders and payments.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest covers state preconditions: order not in the expected
	// status, invalid/expired/mismatched quotes, missing transaction id.
	ErrBadRequest = errors.New("bad request")
	// ErrProviderUnavailable means the provider could not be reached at all.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderRejected means the provider answered with an error payload.
	ErrProviderRejected = errors.New("provider rejected request")
	// ErrProviderNotFound is the provider quirk where absence is signaled by
	// a generic server error on specific endpoints, normalized so callers can
	// treat it like ErrNotFound.
	ErrProviderNotFound = errors.New("provider resource not found")
	// ErrConfirmationPending means the provider has not reached a terminal
	// payment status yet; the settlement must be checked again later.
	ErrConfirmationPending = errors.New("payment confirmation pending")
)

// IsProviderError reports whether err originated in the provider call path,
// transport failure or provider-reported rejection alike.
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrProviderRejected)
}
