package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/middlewares/auth"
	"dispatch/pkg/logger"
	"dispatch/pkg/logger/zap_adapter"
	"dispatch/pkg/wsclient"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	zapLogger, err := zap_adapter.NewZapAdapter(zap_adapter.Options{
		Service: "driver-simulator",
		Level:   os.Getenv("LOG_LEVEL"),
	})
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	var appLogger logger.Logger = zapLogger

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			appLogger.Error("failed to load .env file", logger.NewField("error", err))
			return
		}
	}

	cfg, err := config.LoadSimulator()
	if err != nil {
		appLogger.Error("load config", logger.NewField("error", err))
		return
	}

	if err := run(context.Background(), cfg, appLogger); err != nil {
		appLogger.Error("simulator failed", logger.NewField("error", err))
	}
}

func run(ctx context.Context, cfg *config.Simulator, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	signer := auth.NewVerifier(cfg.JWTSecret)
	url := strings.TrimRight(cfg.ServiceURL, "/") + "/ws/driver"

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("metrics server starting", logger.NewField("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx) //nolint:contextcheck // сервер гасится после отмены gctx
	})

	for i, driverID := range cfg.DriverIDs {
		token, err := signer.Sign(entities.Identity{Subject: driverID, Role: entities.RoleDriver}, cfg.TokenTTL)
		if err != nil {
			return fmt.Errorf("sign token for %s: %w", driverID, err)
		}

		// водители стартуют из одной точки с небольшим разносом
		d := newDriver(log, driverID, cfg.SampleInterval, cfg.OriginLat+float64(i)*0.001, cfg.OriginLng)

		client := wsclient.New(log, wsclient.Options{
			URL:    url,
			Header: http.Header{"Authorization": []string{"Bearer " + token}},
			Retry:  wsclient.DefaultRetry(),
			OnReconnect: func(attempt uint64, delay time.Duration, cause error) {
				reconnectsTotal.WithLabelValues(driverID).Inc()
			},
		})

		g.Go(func() error {
			err := client.Run(gctx, d.session)
			if errors.Is(err, wsclient.ErrSessionReplaced) {
				// другой клиент занял сессию водителя: остальные водители продолжают
				d.log.Warn("driver session taken over, simulator for this driver stopped")
				return nil
			}
			return err
		})
	}

	log.Info("driver simulator started",
		logger.NewField("drivers", len(cfg.DriverIDs)),
		logger.NewField("url", url),
	)

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("driver simulator stopped")
	return nil
}
