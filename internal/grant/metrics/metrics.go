package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the grant request pipeline.
type Metrics struct {
	// Request outcomes by result (accepted, validation_error, notification_failed)
	RequestOutcome *prometheus.CounterVec

	// Slack webhook delivery latency
	NotifyLatency prometheus.Histogram
}

// New creates a Metrics instance with all grant module metrics registered.
func New() *Metrics {
	return &Metrics{
		RequestOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bobadash_grant_requests_total",
			Help: "Total grant requests by result",
		}, []string{"result"}),

		NotifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bobadash_grant_notify_duration_seconds",
			Help:    "Duration of Slack webhook deliveries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 8},
		}),
	}
}

// IncrementRequestOutcome records one grant request result.
func (m *Metrics) IncrementRequestOutcome(result string) {
	if m != nil {
		m.RequestOutcome.WithLabelValues(result).Inc()
	}
}

// ObserveNotifyLatency records the duration of one webhook delivery.
func (m *Metrics) ObserveNotifyLatency(d time.Duration) {
	if m != nil {
		m.NotifyLatency.Observe(d.Seconds())
	}
}
