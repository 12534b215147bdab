package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	application "dispatch/internal/app"
	"dispatch/internal/entities"
	"dispatch/internal/handlers/kafka-consumer/location_sampled"
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
	"dispatch/internal/handlers/rest/healthcheck_head"
	"dispatch/internal/handlers/rest/location_post"
	"dispatch/internal/handlers/rest/navigation_post"
	"dispatch/internal/handlers/rest/ping_get"
	"dispatch/internal/handlers/rest/track_get"
	"dispatch/internal/handlers/rest/tracking_token_post"
	"dispatch/internal/handlers/ws/admin_ws"
	"dispatch/internal/handlers/ws/driver_ws"
	"dispatch/internal/handlers/ws/track_ws"
	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/dotenv"
	"dispatch/internal/pkg/kafka"
	metrics_system "dispatch/internal/pkg/metrics"
	"dispatch/internal/pkg/middlewares/auth"
	"dispatch/internal/pkg/middlewares/graceful_shutdown"
	"dispatch/internal/pkg/middlewares/metrics"
	"dispatch/internal/pkg/middlewares/rate_limiter"
	"dispatch/internal/pkg/middlewares/timeout"
	"dispatch/internal/pkg/postgres"
	"dispatch/internal/pkg/redis"
	"dispatch/internal/pkg/wsconn"
	"dispatch/pkg/logger"
	"dispatch/pkg/logger/zap_adapter"
	"dispatch/pkg/token_bucket"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	zapLogger, err := zap_adapter.NewZapAdapter(zap_adapter.Options{
		Service: "dispatch",
		Level:   os.Getenv("LOG_LEVEL"),
	})
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting dispatch application")

	if _, err := os.Stat(".env"); err == nil {
		if err := dotenv.Load(); err != nil {
			mainLog.Error("failed to load .env file", logger.NewField("error", err))
			return
		}
	} else {
		mainLog.Warn("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck // наследование от context.Background() здесь часть graceful shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, log, pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	redisClient, err := redis.NewClient(ctx, log, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			runLog.Error("failed to close redis connection",
				logger.NewField("error", err),
			)
		}
	}()

	// workersCtx живет до конца run: фоновые задачи и consumer останавливаются после сервера
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	businessApp, err := application.InitializeApplication(workersCtx, log, pool, pgxv5.DefaultCtxGetter, redisClient, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(workersCtx, metrics_system.DefaultCollectInterval)

	var consumer *kafka.Consumer
	consumerErr := make(chan error, 1)
	if cfg.Kafka.Enabled() {
		handler := location_sampled.New(log, businessApp.Locations, cfg.Kafka.Handlers.LocationSampled.ProcessTimeout)
		consumer, err = kafka.NewConsumer(ctx, log, cfg.Kafka, handler)
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		go func() {
			if err := consumer.Start(workersCtx); err != nil {
				consumerErr <- err
			}
		}()
	} else {
		runLog.Info("kafka brokers are not configured, location ingest is REST and websocket only")
	}

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	dependencies := []healthcheck_head.Dependency{
		healthcheck_head.DependencyFunc{
			DependencyName: "postgres",
			PingFunc:       pool.Ping,
		},
		healthcheck_head.DependencyFunc{
			DependencyName: "redis",
			PingFunc: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	}

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, businessApp, cfg, dependencies),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		// WriteTimeout не задан: WebSocket-соединения живут дольше любого запроса,
		// REST ограничен middleware timeout
		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(log, &isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				pprofServerErr <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr: // nil-канал при выключенном pprof, кейс не сработает
		return fmt.Errorf("pprof server: %w", err)
	case err := <-consumerErr:
		return fmt.Errorf("kafka consumer: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()

	// http.Server.Shutdown не ждет захваченные соединения, поэтому
	// WebSocket-сессии закрываются отдельно с кодом 1001
	supervisorErr := businessApp.Supervisor.Shutdown(shutdownCtx)
	if supervisorErr != nil {
		runLog.Error("websocket sessions shutdown error", logger.NewField("error", supervisorErr))
	}

	err = server.Shutdown(shutdownCtx)

	var pprofShutdownErr error
	if pprofServer != nil {
		pprofShutdownErr = pprofServer.Shutdown(shutdownCtx)
		if pprofShutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", pprofShutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()

	stopWorkers()
	businessApp.BackgroundWorkers.Wait()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			runLog.Error("kafka consumer close error", logger.NewField("error", err))
		}
	}

	if err != nil || pprofShutdownErr != nil || supervisorErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.Application,
	cfg *config.Config,
	dependencies []healthcheck_head.Dependency,
) http.Handler {
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
	wsOptions := wsconn.Options{OriginPatterns: cfg.Realtime.AllowedOrigins}

	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))
	router.Use(timeout.Middleware(cfg.Server.RequestTimeout))
	router.Use(metrics.Middleware(log))
	router.Use(rate_limiter.Middleware(log, cfg.Server.RateLimiterQPS, token_bucket.NewTokenBucket(cfg.Server.RateLimiterQPS, float64(cfg.Server.RateLimiterBurst))))
	router.Use(auth.Middleware(log, verifier))

	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/healthcheck", healthcheck_head.New(log, isShuttingDown, dependencies...)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log)).Methods("GET")

	// публичный трекинг: доступ по токену, без личности
	router.Handle("/track/{token}", track_get.New(log, app.ServiceTracking)).Methods("GET")
	router.Handle("/ws/track/{token}", track_ws.New(log, app.Supervisor, app.ServiceTracking, wsOptions)).Methods("GET")

	router.Handle("/ws/admin", admin_ws.New(log, app.Supervisor, wsOptions)).Methods("GET")
	router.Handle("/ws/driver", driver_ws.New(log, app.Supervisor, wsOptions)).Methods("GET")

	admin := auth.Require(entities.RoleAdmin)
	driver := auth.Require(entities.RoleDriver)
	staff := auth.Require(entities.RoleAdmin, entities.RoleDriver)

	router.Handle("/deliveries", admin(deliveries_post.New(log, app.ServiceDelivery))).Methods("POST")
	router.Handle("/deliveries", staff(deliveries_get.New(log, app.ServiceDelivery))).Methods("GET")
	router.Handle("/deliveries/{id}", staff(delivery_get.New(log, app.ServiceDelivery))).Methods("GET")
	router.Handle("/deliveries/{id}/assign", admin(delivery_assign_post.New(log, app.ServiceDelivery))).Methods("POST")
	router.Handle("/deliveries/{id}/advance", driver(delivery_advance_post.New(log, app.ServiceDelivery))).Methods("POST")
	router.Handle("/deliveries/{id}/cancel", staff(delivery_cancel_post.New(log, app.ServiceDelivery))).Methods("POST")
	router.Handle("/deliveries/{id}/tracking-token", admin(tracking_token_post.New(log, app.ServiceTracking))).Methods("POST")
	router.Handle("/deliveries/{id}/navigation", driver(navigation_post.New(log, app.ServiceNavigation))).Methods("POST")

	router.Handle("/locations", driver(location_post.New(log, app.Locations, app.LocationLimiter))).Methods("POST")

	router.Handle("/drivers", admin(drivers_get.New(log, app.ServiceDriver))).Methods("GET")
	router.Handle("/drivers", admin(driver_post.New(log, app.ServiceDriver))).Methods("POST")
	router.Handle("/drivers/{id}", admin(driver_get.New(log, app.ServiceDriver))).Methods("GET")
	router.Handle("/drivers/{id}", admin(driver_put.New(log, app.ServiceDriver))).Methods("PUT")

	return router
}

func initPprofRouter(log logger.Logger, isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(log, isShuttingDown)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
