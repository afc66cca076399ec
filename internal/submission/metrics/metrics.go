package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the submission module.
type Metrics struct {
	// Upstream fetch latencies by table
	UpstreamLatency *prometheus.HistogramVec

	// Listing outcomes by result (ok, not_found, upstream_error)
	ListOutcome *prometheus.CounterVec

	// Eligibility evaluations by enabled/disabled reason
	EligibilityOutcome *prometheus.CounterVec
}

// New creates a Metrics instance with all submission module metrics registered.
func New() *Metrics {
	return &Metrics{
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bobadash_submission_upstream_duration_seconds",
			Help:    "Duration of upstream record fetches by table",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 8},
		}, []string{"table"}),

		ListOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bobadash_submission_list_total",
			Help: "Total submission listings by result",
		}, []string{"result"}),

		EligibilityOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bobadash_submission_eligibility_total",
			Help: "Total eligibility evaluations by reason label",
		}, []string{"reason"}),
	}
}

// ObserveUpstreamLatency records the duration of one upstream fetch.
func (m *Metrics) ObserveUpstreamLatency(table string, d time.Duration) {
	if m != nil {
		m.UpstreamLatency.WithLabelValues(table).Observe(d.Seconds())
	}
}

// IncrementListOutcome records a listing result.
func (m *Metrics) IncrementListOutcome(result string) {
	if m != nil {
		m.ListOutcome.WithLabelValues(result).Inc()
	}
}

// IncrementEligibility records an eligibility evaluation.
func (m *Metrics) IncrementEligibility(reason string) {
	if m != nil {
		m.EligibilityOutcome.WithLabelValues(reason).Inc()
	}
}
