package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/service/delivery"
	"dispatch/pkg/logger"
)

type Navigation struct {
	log        handlerLogger
	deliveries DeliveryService
	locations  LocationReader
	router     Router
	cache      RouteCache
}

func New(log handlerLogger, deliveries DeliveryService, locations LocationReader, router Router, cache RouteCache) *Navigation {
	return &Navigation{
		log:        log,
		deliveries: deliveries,
		locations:  locations,
		router:     router,
		cache:      cache,
	}
}

// routePayload - то, что сохраняется в доставке как маршрут.
type routePayload struct {
	Profile         string          `json:"profile"`
	Origin          point           `json:"origin"`
	Destination     point           `json:"destination"`
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
	ETA             time.Time       `json:"eta"`
	Geometry        json.RawMessage `json:"geometry,omitempty"`
	ComputedAt      time.Time       `json:"computed_at"`
}

type point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Start строит маршрут для назначенного водителя от его текущей позиции
// (или точки забора) до точки доставки и сохраняет его в доставке.
// Ошибка провайдера не меняет доставку.
func (n *Navigation) Start(ctx context.Context, deliveryID, driverID string) (*entities.RoutePlan, error) {
	actor := entities.Identity{Subject: driverID, Role: entities.RoleDriver}

	d, err := n.deliveries.Get(ctx, deliveryID, actor)
	if err != nil {
		if errors.Is(err, delivery.ErrForbidden) {
			return nil, fmt.Errorf("%w: %w", ErrForbidden, err)
		}
		return nil, err
	}
	if !d.Status.IsActive() {
		return nil, fmt.Errorf("%w: status %s", ErrDeliveryNotActive, d.Status)
	}

	origin, err := n.origin(ctx, d, driverID)
	if err != nil {
		return nil, err
	}
	destination, err := n.resolve(ctx, d.Dropoff)
	if err != nil {
		return nil, err
	}

	plan, err := n.route(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(newRoutePayload(plan))
	if err != nil {
		return nil, fmt.Errorf("encode route: %w", err)
	}
	if err := n.deliveries.AttachRoute(ctx, d.ID, payload); err != nil {
		return nil, fmt.Errorf("attach route: %w", err)
	}
	return plan, nil
}

func (n *Navigation) origin(ctx context.Context, d *entities.Delivery, driverID string) (entities.Coordinates, error) {
	if sample, ok := n.locations.Get(driverID); ok {
		return sample.Coordinates(), nil
	}
	return n.resolve(ctx, d.Pickup)
}

func (n *Navigation) resolve(ctx context.Context, address entities.Address) (entities.Coordinates, error) {
	if address.Coordinates != nil {
		return *address.Coordinates, nil
	}

	cached, err := n.cache.GetGeocode(ctx, address.Text)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		n.log.Warn("geocode cache read failed", logger.NewField("error", err))
	}

	coordinates, err := n.router.Geocode(ctx, address.Text)
	if err != nil {
		return entities.Coordinates{}, fmt.Errorf("%w: %w: %w", ErrRouteUnavailable, ErrAddressUnresolved, err)
	}

	if err := n.cache.SetGeocode(ctx, address.Text, coordinates); err != nil {
		n.log.Warn("geocode cache write failed", logger.NewField("error", err))
	}
	return coordinates, nil
}

func (n *Navigation) route(ctx context.Context, origin, destination entities.Coordinates) (*entities.RoutePlan, error) {
	cached, err := n.cache.GetRoute(ctx, n.router.Profile(), origin, destination)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		n.log.Warn("route cache read failed", logger.NewField("error", err))
	}

	plan, err := n.router.Directions(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRouteUnavailable, err)
	}

	if err := n.cache.SetRoute(ctx, *plan); err != nil {
		n.log.Warn("route cache write failed", logger.NewField("error", err))
	}
	return plan, nil
}

func newRoutePayload(plan *entities.RoutePlan) routePayload {
	return routePayload{
		Profile:         plan.Profile,
		Origin:          point{Lat: plan.Origin.Lat, Lng: plan.Origin.Lng},
		Destination:     point{Lat: plan.Destination.Lat, Lng: plan.Destination.Lng},
		DistanceMeters:  plan.DistanceMeters,
		DurationSeconds: plan.DurationSeconds,
		ETA:             plan.ETA(),
		Geometry:        plan.Geometry,
		ComputedAt:      plan.ComputedAt,
	}
}
