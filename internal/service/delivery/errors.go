package delivery

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrMissingCustomer   = errors.New("customer name is required")
	ErrMissingContact    = errors.New("customer phone or email is required")
	ErrMissingAddress    = errors.New("pickup and delivery addresses are required")
	ErrInvalidCoordinate = errors.New("coordinates out of range")
	ErrInvalidStatus     = errors.New("unknown delivery status")
	ErrInvalidDriverID   = errors.New("invalid driver id")

	ErrDeliveryNotFound  = errors.New("delivery not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("actor is not allowed to modify this delivery")
)
