package navigation

import "errors"

var (
	ErrForbidden         = errors.New("navigation is available to the assigned driver only")
	ErrDeliveryNotActive = errors.New("delivery is not active")
	ErrRouteUnavailable  = errors.New("route unavailable")
	ErrCacheMiss         = errors.New("cache miss")
	ErrAddressUnresolved = errors.New("address could not be resolved")
)
