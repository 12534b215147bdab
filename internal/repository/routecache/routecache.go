package routecache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/service/navigation"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 30 * time.Minute

	keyPrefix = "dispatch"

	// 4 знака после запятой - около 11 метров, соседние точки делят кэш
	coordinatePrecision = 4
)

type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func New(client redis.Cmdable, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) GetRoute(ctx context.Context, profile string, origin, destination entities.Coordinates) (*entities.RoutePlan, error) {
	var model routeModel
	if err := c.getJSON(ctx, routeKey(profile, origin, destination), &model); err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

func (c *Cache) SetRoute(ctx context.Context, plan entities.RoutePlan) error {
	key := routeKey(plan.Profile, plan.Origin, plan.Destination)
	return c.setJSON(ctx, key, toRouteModel(plan))
}

func (c *Cache) GetGeocode(ctx context.Context, address string) (entities.Coordinates, error) {
	var model coordinatesModel
	if err := c.getJSON(ctx, geocodeKey(address), &model); err != nil {
		return entities.Coordinates{}, err
	}
	return entities.Coordinates(model), nil
}

func (c *Cache) SetGeocode(ctx context.Context, address string, coordinates entities.Coordinates) error {
	return c.setJSON(ctx, geocodeKey(address), coordinatesModel(coordinates))
}

func (c *Cache) getJSON(ctx context.Context, key string, dest any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return navigation.ErrCacheMiss
		}
		return fmt.Errorf("unexpected route cache get error: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode cached value %s: %w", key, err)
	}
	return nil
}

func (c *Cache) setJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached value %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("unexpected route cache set error: %w", err)
	}
	return nil
}

func routeKey(profile string, origin, destination entities.Coordinates) string {
	return fmt.Sprintf("%s:route:%s:%s;%s", keyPrefix, profile, formatPoint(origin), formatPoint(destination))
}

// адрес хешируется: ключ фиксированной длины и без пробелов
func geocodeKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	sum := sha1.Sum([]byte(normalized))
	return fmt.Sprintf("%s:geocode:%s", keyPrefix, hex.EncodeToString(sum[:]))
}

func formatPoint(c entities.Coordinates) string {
	return strconv.FormatFloat(c.Lng, 'f', coordinatePrecision, 64) + "," +
		strconv.FormatFloat(c.Lat, 'f', coordinatePrecision, 64)
}
