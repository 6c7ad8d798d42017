package metrics

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_gateway_requests_total",
			Help: "Total number of backend requests issued by the gateway.",
		},
		[]string{"operation", "outcome"},
	)
	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_gateway_request_duration_seconds",
			Help:    "Duration of backend requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	fallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_fallback_total",
			Help: "Times the local order cache served a request the backend could not.",
		},
		[]string{"operation"},
	)
	storageOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_storage_ops_total",
			Help: "Key-value store operations by kind and outcome.",
		},
		[]string{"op", "outcome"},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// ObserveGatewayRequest records one backend call.
func ObserveGatewayRequest(operation, outcome string, elapsed time.Duration) {
	gatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
	gatewayRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveFallback records a request answered from the local order cache.
func ObserveFallback(operation string) {
	fallbackTotal.WithLabelValues(operation).Inc()
}

// ObserveStorageOp records one key-value store operation.
func ObserveStorageOp(op, outcome string) {
	storageOpsTotal.WithLabelValues(op, outcome).Inc()
}
