package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/entities"
	retrierconfig "dispatch/pkg/retrier"
	"dispatch/pkg/retrier/backoff_adapter"
)

const (
	serviceName = "mapbox"

	DefaultBaseURL = "https://api.mapbox.com"
	DefaultProfile = "mapbox/driving-traffic"
)

const (
	initialInterval = 200 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxElapsedTime  = 5 * time.Second
	maxRetries      = 2
	randomization   = 0.5
	multiplier      = 2.0
)

type Config struct {
	BaseURL     string
	AccessToken string
	Profile     string
}

type Gateway struct {
	client  httpClient
	retrier retrier
	baseURL string
	token   string
	profile string
	now     func() time.Time
}

func New(client httpClient, cfg Config) *Gateway {
	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		MaxRetries:      maxRetries,
		ShouldRetry:     isRetryable,
	}

	return NewWithRetrier(client, backoff_adapter.New(retryConfig), cfg)
}

func NewWithRetrier(client httpClient, retrier retrier, cfg Config) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Profile == "" {
		cfg.Profile = DefaultProfile
	}

	return &Gateway{
		client:  client,
		retrier: retrier,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AccessToken,
		profile: cfg.Profile,
		now:     time.Now,
	}
}

func (g *Gateway) Profile() string {
	return g.profile
}

type directionsResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"routes"`
}

type geocodeResponse struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

// Directions строит маршрут между двумя точками. Временные ошибки провайдера ретраятся.
func (g *Gateway) Directions(ctx context.Context, origin, destination entities.Coordinates) (*entities.RoutePlan, error) {
	endpoint := fmt.Sprintf("%s/directions/v5/%s/%s;%s",
		g.baseURL, g.profile, formatPoint(origin), formatPoint(destination))

	query := url.Values{}
	query.Set("access_token", g.token)
	query.Set("geometries", "geojson")
	query.Set("overview", "full")

	var resp directionsResponse
	err := g.executeWithMetrics(ctx, "Directions", func(ctx context.Context) error {
		return g.getJSON(ctx, endpoint+"?"+query.Encode(), &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("gateway mapbox, directions: %w", err)
	}

	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("gateway mapbox, directions: %w (code %s)", ErrNoRoute, resp.Code)
	}
	route := resp.Routes[0]

	return &entities.RoutePlan{
		Profile:         g.profile,
		Origin:          origin,
		Destination:     destination,
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
		Geometry:        route.Geometry,
		ComputedAt:      g.now().UTC(),
	}, nil
}

// Geocode возвращает координаты первого совпадения для адреса.
func (g *Gateway) Geocode(ctx context.Context, address string) (entities.Coordinates, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", g.baseURL, url.PathEscape(address))

	query := url.Values{}
	query.Set("access_token", g.token)
	query.Set("limit", "1")

	var resp geocodeResponse
	err := g.executeWithMetrics(ctx, "Geocode", func(ctx context.Context) error {
		return g.getJSON(ctx, endpoint+"?"+query.Encode(), &resp)
	})
	if err != nil {
		return entities.Coordinates{}, fmt.Errorf("gateway mapbox, geocode: %w", err)
	}

	if len(resp.Features) == 0 || len(resp.Features[0].Center) < 2 {
		return entities.Coordinates{}, fmt.Errorf("gateway mapbox, geocode %q: %w", address, ErrNoResults)
	}
	center := resp.Features[0].Center

	// mapbox отдает [lng, lat]
	return entities.Coordinates{Lat: center[1], Lng: center[0]}, nil
}

func (g *Gateway) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func (g *Gateway) executeWithMetrics(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	code := statusCode(err)
	GatewayRequestDuration.WithLabelValues(serviceName, method, code).Observe(time.Since(start).Seconds())

	if attempt > 1 {
		GatewayRetriesTotal.WithLabelValues(serviceName, method, code).Inc()
	}

	return err
}

func statusCode(err error) string {
	if err == nil {
		return "200"
	}
	var he *httpStatusError
	if errors.As(err, &he) {
		return strconv.Itoa(he.Code)
	}
	return "error"
}

func formatPoint(c entities.Coordinates) string {
	return strconv.FormatFloat(c.Lng, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lat, 'f', 6, 64)
}
