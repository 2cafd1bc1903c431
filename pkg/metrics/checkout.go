package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records commit outcomes for the order intake pipeline.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	commits  prometheus.Counter
	failures *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_commit_duration_seconds",
		Help:    "Duration of order commit attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	commits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully persisted.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_commit_failures_total",
		Help: "Order commits rejected, by failure kind.",
	}, []string{"kind"})
	reg.MustRegister(duration, commits, failures)
	return &CheckoutMetrics{
		duration: duration,
		commits:  commits,
		failures: failures,
	}
}

// ObserveDuration records how long a commit attempt took.
func (c *CheckoutMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncCommit increments the successful order counter.
func (c *CheckoutMetrics) IncCommit() {
	if c == nil || c.commits == nil {
		return
	}
	c.commits.Inc()
}

// IncFailure increments the rejection counter for the given kind.
func (c *CheckoutMetrics) IncFailure(kind string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(kind).Inc()
}
