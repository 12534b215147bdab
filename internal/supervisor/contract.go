//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=supervisor_test
package supervisor

import (
	"context"

	"dispatch/internal/broadcast"
	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Conn - двунаправленное соединение с сообщениями целиком.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close(code CloseCode, reason string) error
}

type Hub interface {
	SubscribeAdmin(adminID string) *broadcast.Subscription
	SubscribeDriver(driverID string) *broadcast.Subscription
	SubscribeCustomer(deliveryID string) *broadcast.Subscription
}

type LocationUpdater interface {
	Update(ctx context.Context, sample entities.LocationSample) (bool, error)
}

type TrackingViewer interface {
	View(ctx context.Context, token string) (*entities.TrackingView, error)
}
