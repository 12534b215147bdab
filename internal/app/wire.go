//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"dispatch/internal/broadcast"
	"dispatch/internal/gateway/http/mapbox"
	"dispatch/internal/handlers/tasks/active_index_refresh"
	"dispatch/internal/handlers/tasks/location_eviction"
	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/factory/identifier"
	"dispatch/internal/pkg/factory/transition_time"
	deliveryRepo "dispatch/internal/repository/delivery"
	driverRepo "dispatch/internal/repository/driver"
	"dispatch/internal/repository/routecache"
	deliveryService "dispatch/internal/service/delivery"
	driverService "dispatch/internal/service/driver"
	"dispatch/internal/service/location"
	"dispatch/internal/service/navigation"
	"dispatch/internal/service/tracking"
	"dispatch/internal/supervisor"
	"dispatch/pkg/keylock"
	"dispatch/pkg/logger"
	"dispatch/pkg/tx"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	redisClient *goredis.Client,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,

		provideDeliveryRepository,
		provideDriverRepository,
		provideRouteCache,

		identifier.New,
		transition_time.New,
		keylock.New,
		provideHub,
		provideLocationStore,
		provideLocationLimiter,
		provideRoutingGateway,

		provideServiceDriver,
		provideServiceDelivery,
		provideServiceTracking,
		provideServiceNavigation,
		provideSupervisor,

		provideActiveIndexRefreshTask,
		provideLocationEvictionTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceDelivery), new(*deliveryService.Delivery)),
		wire.Bind(new(ServiceDriver), new(*driverService.Driver)),
		wire.Bind(new(ServiceTracking), new(*tracking.Tracking)),

		wire.Bind(new(deliveryService.Repository), new(*deliveryRepo.Repository)),
		wire.Bind(new(deliveryService.DriverService), new(*driverService.Driver)),
		wire.Bind(new(deliveryService.Publisher), new(*broadcast.Hub)),
		wire.Bind(new(deliveryService.Locker), new(*keylock.KeyLock)),
		wire.Bind(new(deliveryService.TransitionTimeFactory), new(*transition_time.TransitionTimeFactory)),
		wire.Bind(new(deliveryService.IDGenerator), new(*identifier.UUIDFactory)),
		wire.Bind(new(deliveryService.TxManager), new(*tx.Manager)),

		wire.Bind(new(driverService.Repository), new(*driverRepo.Repository)),
		wire.Bind(new(driverService.IDGenerator), new(*identifier.UUIDFactory)),

		wire.Bind(new(tracking.Repository), new(*deliveryRepo.Repository)),
		wire.Bind(new(tracking.LocationReader), new(*location.Store)),

		wire.Bind(new(navigation.DeliveryService), new(*deliveryService.Delivery)),
		wire.Bind(new(navigation.LocationReader), new(*location.Store)),
		wire.Bind(new(navigation.Router), new(*mapbox.Gateway)),
		wire.Bind(new(navigation.RouteCache), new(*routecache.Cache)),

		wire.Bind(new(supervisor.Hub), new(*broadcast.Hub)),
		wire.Bind(new(supervisor.LocationUpdater), new(*location.Store)),
		wire.Bind(new(supervisor.TrackingViewer), new(*tracking.Tracking)),

		wire.Bind(new(active_index_refresh.Index), new(*broadcast.Hub)),
		wire.Bind(new(location_eviction.Store), new(*location.Store)),
	)
	return &Application{}, nil
}

