package routing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"delivery-service/src/internal/observability"
	"delivery-service/src/pkg/geo"
	"delivery-service/src/pkg/log"

	"github.com/redis/go-redis/v9"
)

// CachedProvider keeps successful routed distances in Redis. Failures are
// never cached so the next lookup asks the provider again.
type CachedProvider struct {
	Next  Provider
	Redis redis.UniversalClient
	TTL   time.Duration
	Log   log.Log
}

func NewCachedProvider(next Provider, client redis.UniversalClient, ttl time.Duration, logger log.Log) *CachedProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedProvider{Next: next, Redis: client, TTL: ttl, Log: logger}
}

func cacheKey(origin, destination geo.Coordinate) string {
	return fmt.Sprintf("ROUTE:DISTANCE:%.6f,%.6f:%.6f,%.6f", origin.Lat, origin.Lng, destination.Lat, destination.Lng)
}

func (c *CachedProvider) RouteDistance(ctx context.Context, origin, destination geo.Coordinate) (int, error) {
	key := cacheKey(origin, destination)

	cached, err := c.Redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		if meters, convErr := strconv.Atoi(cached); convErr == nil {
			observability.RouteCacheLookups.WithLabelValues("hit").Inc()
			return meters, nil
		}
		c.Log.Warn("routing-cache", "discarding malformed cache entry", "RouteDistance", key)
	case errors.Is(err, redis.Nil):
	default:
		c.Log.Warn("routing-cache", fmt.Sprintf("redis get failed: %v", err), "RouteDistance", key)
	}
	observability.RouteCacheLookups.WithLabelValues("miss").Inc()

	meters, err := c.Next.RouteDistance(ctx, origin, destination)
	if err != nil {
		return 0, err
	}
	if setErr := c.Redis.Set(ctx, key, strconv.Itoa(meters), c.TTL).Err(); setErr != nil {
		c.Log.Warn("routing-cache", fmt.Sprintf("redis set failed: %v", setErr), "RouteDistance", key)
	}
	return meters, nil
}
