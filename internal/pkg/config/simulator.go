package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	defaultSimulatorSampleInterval = 2 * time.Second
	defaultSimulatorTokenTTL       = 24 * time.Hour
	defaultSimulatorMetricsPort    = "2112"
)

// Simulator - настройки эталонного клиента водителя.
type Simulator struct {
	ServiceURL     string // ws://host:port
	JWTSecret      string
	DriverIDs      []string
	SampleInterval time.Duration
	TokenTTL       time.Duration
	MetricsPort    string
	OriginLat      float64
	OriginLng      float64
}

func LoadSimulator() (*Simulator, error) {
	var l loader

	cfg := &Simulator{
		ServiceURL:     os.Getenv("SIMULATOR_SERVICE_URL"),
		JWTSecret:      os.Getenv("AUTH_JWT_SECRET"),
		DriverIDs:      splitList(os.Getenv("SIMULATOR_DRIVER_IDS")),
		SampleInterval: l.duration("SIMULATOR_SAMPLE_INTERVAL", defaultSimulatorSampleInterval),
		TokenTTL:       l.duration("SIMULATOR_TOKEN_TTL", defaultSimulatorTokenTTL),
		MetricsPort:    os.Getenv("SIMULATOR_METRICS_PORT"),
		OriginLat:      l.float("SIMULATOR_ORIGIN_LAT", 55.7558),
		OriginLng:      l.float("SIMULATOR_ORIGIN_LNG", 37.6173),
	}
	if l.err != nil {
		return nil, fmt.Errorf("environment loading: %w", l.err)
	}
	if cfg.MetricsPort == "" {
		cfg.MetricsPort = defaultSimulatorMetricsPort
	}

	switch {
	case cfg.ServiceURL == "":
		return nil, errors.New("validation: SIMULATOR_SERVICE_URL is required")
	case cfg.JWTSecret == "":
		return nil, errors.New("validation: AUTH_JWT_SECRET is required")
	case len(cfg.DriverIDs) == 0:
		return nil, errors.New("validation: SIMULATOR_DRIVER_IDS is required")
	case cfg.SampleInterval <= 0:
		return nil, errors.New("validation: SIMULATOR_SAMPLE_INTERVAL must be positive")
	}
	return cfg, nil
}
