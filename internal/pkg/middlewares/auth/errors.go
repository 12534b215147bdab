package auth

import "errors"

var (
	ErrMissingToken = errors.New("missing access token")
	ErrInvalidToken = errors.New("invalid access token")
	ErrUnknownRole  = errors.New("unknown role in access token")
)
