//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=navigation_test
package navigation

import (
	"context"
	"encoding/json"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Warn(msg string, fields ...logger.Field)
}

type DeliveryService interface {
	Get(ctx context.Context, deliveryID string, actor entities.Identity) (*entities.Delivery, error)
	AttachRoute(ctx context.Context, deliveryID string, payload json.RawMessage) error
}

type LocationReader interface {
	Get(driverID string) (entities.LocationSample, bool)
}

type Router interface {
	Profile() string
	Directions(ctx context.Context, origin, destination entities.Coordinates) (*entities.RoutePlan, error)
	Geocode(ctx context.Context, address string) (entities.Coordinates, error)
}

// RouteCache возвращает ErrCacheMiss, если записи нет.
type RouteCache interface {
	GetRoute(ctx context.Context, profile string, origin, destination entities.Coordinates) (*entities.RoutePlan, error)
	SetRoute(ctx context.Context, plan entities.RoutePlan) error
	GetGeocode(ctx context.Context, address string) (entities.Coordinates, error)
	SetGeocode(ctx context.Context, address string, coordinates entities.Coordinates) error
}
