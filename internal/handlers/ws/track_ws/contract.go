//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=track_ws_test
package track_ws

import (
	"context"

	"dispatch/internal/supervisor"
	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Supervisor interface {
	ServeCustomer(ctx context.Context, conn supervisor.Conn, token, deliveryID string)
}

type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}
