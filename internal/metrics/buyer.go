// Package metrics exports purchase loop counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"market_buyer/internal/domain/service/classifier"
)

const namespace = "market_buyer"

type BuyerMetrics struct {
	attempts *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	tasks    *prometheus.CounterVec
}

func NewBuyerMetrics(reg prometheus.Registerer) *BuyerMetrics {
	factory := promauto.With(reg)

	return &BuyerMetrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_attempts_total",
			Help:      "Buy attempts by routing and error kind.",
		}, []string{"routing", "kind"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_runs_total",
			Help:      "Finished purchase runs by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "purchase_run_duration_seconds",
			Help:      "Duration of a purchase run including the offer search.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		tasks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_tasks_total",
			Help:      "Queued purchase tasks by result.",
		}, []string{"result"}),
	}
}

// ObserveAttempt counts one buy attempt. kind falls back to reason for retries
// without an error kind.
func (m *BuyerMetrics) ObserveAttempt(routing classifier.Routing, kind, reason string) {
	if kind == "" {
		kind = reason
	}

	m.attempts.WithLabelValues(routing.String(), kind).Inc()
}

func (m *BuyerMetrics) ObserveRun(outcome string, duration time.Duration) {
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(duration.Seconds())
}

func (m *BuyerMetrics) ObserveTask(result string) {
	m.tasks.WithLabelValues(result).Inc()
}
