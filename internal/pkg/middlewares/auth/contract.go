package auth

import (
	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type TokenVerifier interface {
	Verify(tokenString string) (entities.Identity, error)
}

type handlerLogger interface {
	Warn(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
