// Package observability holds the Prometheus collectors and OpenTelemetry tracer.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmsphere_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmsphere_cache_lookups_total",
		Help: "Cache-aside lookups by result",
	}, []string{"result"})

	// Predictions counts inference requests by outcome.
	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmsphere_predictions_total",
		Help: "Image classification requests by outcome",
	}, []string{"outcome"})

	// InferenceLatency records model server round trip latency.
	InferenceLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "farmsphere_inference_latency_seconds",
		Help:    "Latency of a single forward pass on the model server",
		Buckets: prometheus.DefBuckets,
	})

	// Toggles counts like/save toggles by kind and resulting state.
	Toggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmsphere_toggles_total",
		Help: "Like and save toggles by kind and resulting state",
	}, []string{"kind", "state"})

	// ChatStreamConnections is the gauge of open chat WebSocket connections.
	ChatStreamConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "farmsphere_chat_stream_connections",
		Help: "Number of open chat WebSocket connections",
	})

	// ChatStreamDrops counts messages dropped because a subscriber buffer was full.
	ChatStreamDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmsphere_chat_stream_drops_total",
		Help: "Chat messages dropped due to subscriber backpressure",
	})
)

// ObserveInference records the latency of a forward pass started at start.
func ObserveInference(start time.Time) {
	InferenceLatency.Observe(time.Since(start).Seconds())
}
