//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=tracking_token_post_test
package tracking_token_post

import (
	"context"

	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	Issue(ctx context.Context, deliveryID string) (string, error)
}
