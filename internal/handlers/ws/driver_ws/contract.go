//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=driver_ws_test
package driver_ws

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
	ServeDriver(ctx context.Context, conn supervisor.Conn, driverID string)
}
