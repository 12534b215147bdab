package app

import (
	"context"
	"net/http"

	"dispatch/internal/broadcast"
	"dispatch/internal/gateway/http/mapbox"
	"dispatch/internal/handlers/rest/deliveries_get"
	"dispatch/internal/handlers/rest/deliveries_post"
	"dispatch/internal/handlers/rest/delivery_advance_post"
	"dispatch/internal/handlers/rest/delivery_assign_post"
	"dispatch/internal/handlers/rest/delivery_cancel_post"
	"dispatch/internal/handlers/rest/delivery_get"
	"dispatch/internal/handlers/rest/driver_get"
	"dispatch/internal/handlers/rest/driver_post"
	"dispatch/internal/handlers/rest/driver_put"
	"dispatch/internal/handlers/rest/drivers_get"
	"dispatch/internal/handlers/rest/track_get"
	"dispatch/internal/handlers/rest/tracking_token_post"
	"dispatch/internal/handlers/tasks/active_index_refresh"
	"dispatch/internal/handlers/tasks/location_eviction"
	"dispatch/internal/handlers/ws/track_ws"
	"dispatch/internal/pkg/config"
	deliveryRepo "dispatch/internal/repository/delivery"
	driverRepo "dispatch/internal/repository/driver"
	"dispatch/internal/repository/routecache"
	deliveryService "dispatch/internal/service/delivery"
	driverService "dispatch/internal/service/driver"
	"dispatch/internal/service/location"
	"dispatch/internal/service/navigation"
	"dispatch/internal/service/tracking"
	"dispatch/internal/supervisor"
	"dispatch/pkg/background"
	"dispatch/pkg/logger"
	"dispatch/pkg/querier"
	"dispatch/pkg/token_bucket"
	"dispatch/pkg/tx"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

type Application struct {
	ServiceDelivery   ServiceDelivery
	ServiceDriver     ServiceDriver
	ServiceTracking   ServiceTracking
	ServiceNavigation *navigation.Navigation
	Locations         *location.Store
	LocationLimiter   *token_bucket.Keyed
	Hub               *broadcast.Hub
	Supervisor        *supervisor.Supervisor
	BackgroundWorkers *background.Worker
}

type ServiceDelivery interface {
	deliveries_get.Service
	deliveries_post.Service
	delivery_get.Service
	delivery_assign_post.Service
	delivery_advance_post.Service
	delivery_cancel_post.Service
	active_index_refresh.Service
}

type ServiceDriver interface {
	driver_get.Service
	driver_post.Service
	driver_put.Service
	drivers_get.Service
}

type ServiceTracking interface {
	tracking_token_post.Service
	track_get.Service
	track_ws.TokenResolver
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideDeliveryRepository(querier *querier.Querier) *deliveryRepo.Repository {
	return deliveryRepo.New(querier)
}

func provideDriverRepository(querier *querier.Querier) *driverRepo.Repository {
	return driverRepo.New(querier)
}

func provideRouteCache(client *goredis.Client, cfg *config.Config) *routecache.Cache {
	return routecache.New(client, cfg.Redis.RouteCacheTTL)
}

func provideHub(cfg *config.Config) *broadcast.Hub {
	return broadcast.New(broadcast.WithQueueSize(cfg.Realtime.QueueSize))
}

func provideLocationStore(hub *broadcast.Hub, cfg *config.Config) *location.Store {
	return location.New(hub, location.WithTTL(cfg.Tasks.LocationTTL))
}

func provideLocationLimiter(cfg *config.Config) *token_bucket.Keyed {
	return token_bucket.NewKeyed(cfg.Realtime.LocationBurst, cfg.Realtime.LocationRate)
}

func provideRoutingGateway(cfg *config.Config) *mapbox.Gateway {
	client := &http.Client{Timeout: cfg.Routing.RequestTimeout}
	return mapbox.New(client, mapbox.Config{
		BaseURL:     cfg.Routing.BaseURL,
		AccessToken: cfg.Routing.AccessToken,
		Profile:     cfg.Routing.Profile,
	})
}

func provideServiceDriver(
	repository driverService.Repository,
	ids driverService.IDGenerator,
) *driverService.Driver {
	return driverService.New(repository, ids)
}

func provideServiceDelivery(
	repository deliveryService.Repository,
	drivers deliveryService.DriverService,
	publisher deliveryService.Publisher,
	locker deliveryService.Locker,
	timeFactory deliveryService.TransitionTimeFactory,
	ids deliveryService.IDGenerator,
	txManager deliveryService.TxManager,
) *deliveryService.Delivery {
	return deliveryService.New(
		repository,
		drivers,
		publisher,
		locker,
		timeFactory,
		ids,
		txManager,
	)
}

func provideServiceTracking(
	repository tracking.Repository,
	locations tracking.LocationReader,
) *tracking.Tracking {
	return tracking.New(repository, locations, tracking.NewRandomTokenSource())
}

func provideServiceNavigation(
	log logger.Logger,
	deliveries navigation.DeliveryService,
	locations navigation.LocationReader,
	router navigation.Router,
	cache navigation.RouteCache,
) *navigation.Navigation {
	return navigation.New(log, deliveries, locations, router, cache)
}

func provideSupervisor(
	log logger.Logger,
	hub supervisor.Hub,
	locations supervisor.LocationUpdater,
	trackingViewer supervisor.TrackingViewer,
	cfg *config.Config,
) *supervisor.Supervisor {
	return supervisor.New(log, hub, locations, trackingViewer, supervisor.Config{
		HeartbeatInterval: cfg.Realtime.HeartbeatInterval,
		IdleTimeout:       cfg.Realtime.IdleTimeout,
		WriteTimeout:      cfg.Realtime.WriteTimeout,
		LocationBurst:     cfg.Realtime.LocationBurst,
		LocationRate:      cfg.Realtime.LocationRate,
	})
}

func provideActiveIndexRefreshTask(
	log logger.Logger,
	deliveries active_index_refresh.Service,
	index active_index_refresh.Index,
	cfg *config.Config,
) *active_index_refresh.ActiveIndexRefresh {
	return active_index_refresh.NewActiveIndexRefresh(log, deliveries, index, cfg.Tasks.ActiveIndexRefreshInterval)
}

func provideLocationEvictionTask(
	log logger.Logger,
	store location_eviction.Store,
	cfg *config.Config,
) *location_eviction.LocationEviction {
	return location_eviction.NewLocationEviction(log, store, cfg.Tasks.LocationEvictionInterval)
}

func provideTaskList(
	activeIndexRefreshTask *active_index_refresh.ActiveIndexRefresh,
	locationEvictionTask *location_eviction.LocationEviction,
) []background.Task {
	return []background.Task{
		activeIndexRefreshTask,
		locationEvictionTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
