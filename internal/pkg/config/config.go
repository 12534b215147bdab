package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultQueueSize         = 64
	defaultIdleTimeout       = 45 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultHeartbeatInterval = 15 * time.Second
	defaultLocationRate      = 5
	defaultLocationBurst     = 10

	defaultRouteCacheTTL  = 30 * time.Minute
	defaultRoutingTimeout = 10 * time.Second

	defaultActiveIndexRefreshInterval = time.Minute
	defaultLocationEvictionInterval   = 30 * time.Second
	defaultLocationTTL                = 5 * time.Minute

	// idle-окно соединения держим в пределах 30-60 секунд
	minIdleTimeout = 30 * time.Second
	maxIdleTimeout = 60 * time.Second
)

type (
	Tasks struct {
		ActiveIndexRefreshInterval time.Duration
		LocationEvictionInterval   time.Duration
		LocationTTL                time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware rate limiter capacity
		RateLimiterBurst int           // middleware rate limiter burst/refill
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Redis struct {
		Addr          string
		Password      string
		DB            int
		RouteCacheTTL time.Duration
	}

	Auth struct {
		JWTSecret string
	}

	Realtime struct {
		QueueSize         int
		IdleTimeout       time.Duration
		WriteTimeout      time.Duration
		HeartbeatInterval time.Duration
		AllowedOrigins    []string
		LocationRate      float64
		LocationBurst     int
	}

	Routing struct {
		BaseURL        string
		AccessToken    string
		Profile        string
		RequestTimeout time.Duration
	}

	Kafka struct {
		Brokers       []string
		Topic         string
		ConsumerGroup string
		Sarama        Sarama
		Handlers      KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		LocationSampled LocationSampled
	}

	LocationSampled struct {
		ProcessTimeout time.Duration
	}

	Config struct {
		Tasks    Tasks
		Server   HTTPServer
		Database Database
		Redis    Redis
		Auth     Auth
		Realtime Realtime
		Routing  Routing
		Kafka    Kafka
	}
)

// Enabled - консьюмер локаций включается только при заданных брокерах.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

func loadFromEnv() (*Config, error) {
	var l loader

	cfg := &Config{
		Tasks: Tasks{
			ActiveIndexRefreshInterval: l.duration("BACKGROUND_ACTIVE_INDEX_REFRESH_INTERVAL", defaultActiveIndexRefreshInterval),
			LocationEvictionInterval:   l.duration("BACKGROUND_LOCATION_EVICTION_INTERVAL", defaultLocationEvictionInterval),
			LocationTTL:                l.duration("LOCATION_TTL", defaultLocationTTL),
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   l.duration("MIDDLEWARE_REQUEST_TIMEOUT", 0),
			RateLimiterQPS:   l.int("MIDDLEWARE_RATE_LIMIT_QPS", 0),
			RateLimiterBurst: l.int("MIDDLEWARE_RATE_LIMIT_BURST", 0),
			PprofEnabled:     l.bool("PPROF_ENABLED"),
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Redis: Redis{
			Addr:          os.Getenv("REDIS_ADDR"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            l.int("REDIS_DB", 0),
			RouteCacheTTL: l.duration("ROUTE_CACHE_TTL", defaultRouteCacheTTL),
		},
		Auth: Auth{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		Realtime: Realtime{
			QueueSize:         l.int("REALTIME_QUEUE_SIZE", defaultQueueSize),
			IdleTimeout:       l.duration("REALTIME_IDLE_TIMEOUT", defaultIdleTimeout),
			WriteTimeout:      l.duration("REALTIME_WRITE_TIMEOUT", defaultWriteTimeout),
			HeartbeatInterval: l.duration("REALTIME_HEARTBEAT_INTERVAL", defaultHeartbeatInterval),
			AllowedOrigins:    splitList(os.Getenv("REALTIME_ALLOWED_ORIGINS")),
			LocationRate:      l.float("REALTIME_LOCATION_RATE", defaultLocationRate),
			LocationBurst:     l.int("REALTIME_LOCATION_BURST", defaultLocationBurst),
		},
		Routing: Routing{
			BaseURL:        os.Getenv("ROUTING_BASE_URL"),
			AccessToken:    os.Getenv("ROUTING_ACCESS_TOKEN"),
			Profile:        os.Getenv("ROUTING_PROFILE"),
			RequestTimeout: l.duration("ROUTING_REQUEST_TIMEOUT", defaultRoutingTimeout),
		},
		Kafka: Kafka{
			Brokers:       splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:         os.Getenv("KAFKA_TOPIC"),
			ConsumerGroup: os.Getenv("KAFKA_CONSUMER_GROUP"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: l.bool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT"),
			},
			Handlers: KafkaHandlers{
				LocationSampled: LocationSampled{
					ProcessTimeout: l.duration("KAFKA_HANDLER_LOCATION_SAMPLED_PROCESS_TIMEOUT", 0),
				},
			},
		},
	}

	if l.err != nil {
		return nil, fmt.Errorf("loading config: %w", l.err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if cfg.Database.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if cfg.Database.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if cfg.Database.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if cfg.Database.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}

	if cfg.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required")
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}

	if cfg.Realtime.IdleTimeout < minIdleTimeout || cfg.Realtime.IdleTimeout > maxIdleTimeout {
		return fmt.Errorf("REALTIME_IDLE_TIMEOUT must be within %s..%s", minIdleTimeout, maxIdleTimeout)
	}
	if cfg.Realtime.HeartbeatInterval >= cfg.Realtime.IdleTimeout {
		return errors.New("REALTIME_HEARTBEAT_INTERVAL must be shorter than REALTIME_IDLE_TIMEOUT")
	}
	if cfg.Realtime.QueueSize <= 0 {
		return errors.New("REALTIME_QUEUE_SIZE must be positive")
	}

	if cfg.Kafka.Enabled() {
		if cfg.Kafka.Topic == "" {
			return errors.New("KAFKA_TOPIC is required")
		}
		if cfg.Kafka.ConsumerGroup == "" {
			return errors.New("KAFKA_CONSUMER_GROUP is required")
		}
		if cfg.Kafka.Sarama.Version == "" {
			return errors.New("KAFKA_SARAMA_VERSION is required")
		}
		if cfg.Kafka.Handlers.LocationSampled.ProcessTimeout == time.Duration(0) {
			return errors.New("KAFKA_HANDLER_LOCATION_SAMPLED_PROCESS_TIMEOUT is required")
		}
	}

	return nil
}

// loader запоминает первую ошибку разбора, чтобы не проверять каждую переменную отдельно.
type loader struct {
	err error
}

func (l *loader) int(s string, def int) int {
	val := os.Getenv(s)
	if val == "" || l.err != nil {
		return def
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		l.err = fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
		return def
	}
	return res
}

func (l *loader) float(s string, def float64) float64 {
	val := os.Getenv(s)
	if val == "" || l.err != nil {
		return def
	}

	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		l.err = fmt.Errorf("invalid float format for %s=%q: %w", s, val, err)
		return def
	}
	return res
}

func (l *loader) duration(s string, def time.Duration) time.Duration {
	val := os.Getenv(s)
	if val == "" || l.err != nil {
		return def
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		l.err = fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
		return def
	}
	return res
}

func (l *loader) bool(s string) bool {
	val := os.Getenv(s)
	if val == "" || l.err != nil {
		return false
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		l.err = fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
		return false
	}
	return res
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}

	parts := strings.Split(val, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
