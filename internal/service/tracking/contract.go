//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=tracking_test
package tracking

import (
	"context"

	"dispatch/internal/entities"
)

type Repository interface {
	// SetTrackingToken сохраняет candidate, только если у доставки еще нет токена,
	// и возвращает токен, который в итоге хранится.
	SetTrackingToken(ctx context.Context, deliveryID, candidate string) (string, error)
	GetByTrackingToken(ctx context.Context, token string) (*entities.Delivery, error)
}

type LocationReader interface {
	Get(driverID string) (entities.LocationSample, bool)
}

type TokenSource interface {
	NewToken() (string, error)
}
