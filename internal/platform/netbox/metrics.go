package netbox

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/siteprov/siteprov/internal/inventory"
)

// Metric result labels.
const (
	resultSuccess   = "success"
	resultMiss      = "miss"
	resultDuplicate = "duplicate"
	resultError     = "error"
)

type metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	return &metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "siteprov",
				Subsystem: "inventory",
				Name:      "api_calls_total",
				Help:      "Total number of inventory API calls by operation, kind and result",
			},
			[]string{"operation", "kind", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "siteprov",
				Subsystem: "inventory",
				Name:      "api_call_duration_seconds",
				Help:      "Duration of inventory API calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
			},
			[]string{"operation", "kind"},
		),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	if err := reg.Register(m.calls); err != nil {
		return err
	}
	return reg.Register(m.duration)
}

func (m *metrics) observe(operation string, kind inventory.Kind, result string, start time.Time) {
	m.calls.WithLabelValues(operation, kind.String(), result).Inc()
	m.duration.WithLabelValues(operation, kind.String()).Observe(time.Since(start).Seconds())
}
