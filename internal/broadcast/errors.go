package broadcast

import "errors"

var (
	// ErrReplaced - сессию водителя вытеснило новое подключение с тем же id.
	ErrReplaced = errors.New("session replaced")
	ErrClosed   = errors.New("subscription closed")
)
