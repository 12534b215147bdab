package driver

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrInvalidDriverID  = errors.New("invalid driver id")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidPhone     = errors.New("invalid phone")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	ErrDriverNotFound = errors.New("driver not found")
	ErrConflict       = errors.New("resource already exists")
)
