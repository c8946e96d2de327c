package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "delivery_service"

var (
	DistanceResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "distance_resolutions_total", Help: "Distance resolutions by source (routed, haversine)"},
		[]string{"source"},
	)
	RoutingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "routing_provider_latency_seconds",
		Help:      "Latency of routed distance lookups",
		Buckets:   prometheus.DefBuckets,
	})
	RouteCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "route_cache_lookups_total", Help: "Route distance cache lookups by result"},
		[]string{"result"},
	)
	DeliveryTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "delivery_transitions_total", Help: "Applied delivery status transitions"},
		[]string{"from", "to"},
	)
	LedgerTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "ledger_transactions_total", Help: "Appended point transactions by type"},
		[]string{"type"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
