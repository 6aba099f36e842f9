package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts transactions by mode (read, write) and outcome
// (commit, rollback, error) and times them.
type Metrics struct {
	transactions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewMetrics registers the store collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		transactions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripstore",
			Name:      "transactions_total",
			Help:      "Store transactions by mode and outcome.",
		}, []string{"mode", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tripstore",
			Name:      "transaction_duration_seconds",
			Help:      "Time from begin to commit or rollback.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"mode"}),
	}
}

func (m *Metrics) observe(mode, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(mode, outcome).Inc()
	m.duration.WithLabelValues(mode).Observe(d.Seconds())
}
