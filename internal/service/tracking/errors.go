package tracking

import "errors"

var (
	// ErrInvalidToken одинаков для неизвестного и синтаксически неверного токена.
	ErrInvalidToken = errors.New("tracking token not found")

	ErrTokenCollision = errors.New("tracking token collision")
)
