package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"delivery-service/src/internal/observability"
	"delivery-service/src/pkg/geo"
	"delivery-service/src/pkg/log"
)

const (
	SourceRouted    = "routed"
	SourceHaversine = "haversine"
)

var (
	ErrNoRoute    = errors.New("no route found")
	ErrResolution = errors.New("distance could not be resolved")
)

// Provider reports the road-network distance between two points in meters.
type Provider interface {
	RouteDistance(ctx context.Context, origin, destination geo.Coordinate) (int, error)
}

type Result struct {
	DistanceKm float64 `json:"distanceKm"`
	Source     string  `json:"source"`
}

// Resolver prefers the routed distance and falls back to Haversine whenever
// the provider is missing, slow, or answers with anything but a route.
type Resolver struct {
	Provider Provider
	Timeout  time.Duration
	Log      log.Log
}

func NewResolver(provider Provider, timeout time.Duration, logger log.Log) *Resolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Resolver{Provider: provider, Timeout: timeout, Log: logger}
}

func (r *Resolver) Resolve(ctx context.Context, origin, destination geo.Coordinate) (Result, error) {
	if err := origin.Validate(); err != nil {
		return Result{}, fmt.Errorf("origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return Result{}, fmt.Errorf("destination: %w", err)
	}

	if km, ok := r.routed(ctx, origin, destination); ok {
		observability.DistanceResolutions.WithLabelValues(SourceRouted).Inc()
		return Result{DistanceKm: km, Source: SourceRouted}, nil
	}

	km := geo.HaversineKm(origin, destination)
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		return Result{}, fmt.Errorf("%w: haversine produced %v", ErrResolution, km)
	}
	observability.DistanceResolutions.WithLabelValues(SourceHaversine).Inc()
	return Result{DistanceKm: km, Source: SourceHaversine}, nil
}

func (r *Resolver) routed(ctx context.Context, origin, destination geo.Coordinate) (float64, bool) {
	if r.Provider == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	start := time.Now()
	meters, err := r.Provider.RouteDistance(ctx, origin, destination)
	observability.RoutingLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		r.Log.Warn("routing-resolver", fmt.Sprintf("routed lookup failed, using haversine: %v", err), "Resolve",
			fmt.Sprintf("origin=%s destination=%s", origin, destination))
		return 0, false
	}
	if meters < 0 {
		r.Log.Warn("routing-resolver", "provider returned a negative distance, using haversine", "Resolve", fmt.Sprintf("meters=%d", meters))
		return 0, false
	}
	return float64(meters) / 1000.0, true
}
