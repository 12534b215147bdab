package location

import "errors"

var (
	ErrInvalidSample   = errors.New("invalid location sample")
	ErrInvalidDriverID = errors.New("invalid driver id")
)
