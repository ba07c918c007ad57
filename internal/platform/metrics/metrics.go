package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	ResolutionsTotal *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	VerdictsTotal    *prometheus.CounterVec
	BatchItemsTotal  *prometheus.CounterVec
	RateLimitWaits   prometheus.Counter
}

// New creates and registers all Prometheus metrics on the default registry
func New() *Metrics {
	return With(prometheus.DefaultRegisterer)
}

// With creates all metrics on the given registerer. Tests pass their own
// registry to avoid duplicate-registration panics.
func With(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ResolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arreglocuil_resolutions_total",
			Help: "Identity resolution attempts by provider and outcome",
		}, []string{"provider", "outcome"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arreglocuil_provider_latency_seconds",
			Help:    "Latency of provider lookups",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"provider"}),
		VerdictsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arreglocuil_verdicts_total",
			Help: "Eligibility verdicts by workflow and outcome",
		}, []string{"workflow", "outcome"}),
		BatchItemsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arreglocuil_batch_items_total",
			Help: "Batch items processed by variant and result",
		}, []string{"variant", "result"}),
		RateLimitWaits: factory.NewCounter(prometheus.CounterOpts{
			Name: "arreglocuil_rate_limit_waits_total",
			Help: "Cooldown waits triggered by upstream rate limiting",
		}),
	}
}

// ObserveResolution records one resolution attempt. Nil receiver is a no-op
// so wiring metrics stays optional in tests.
func (m *Metrics) ObserveResolution(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveVerdict records one verdict.
func (m *Metrics) ObserveVerdict(workflow, outcome string) {
	if m == nil {
		return
	}
	m.VerdictsTotal.WithLabelValues(workflow, outcome).Inc()
}

// ObserveBatchItem records one processed batch item.
func (m *Metrics) ObserveBatchItem(variant, result string) {
	if m == nil {
		return
	}
	m.BatchItemsTotal.WithLabelValues(variant, result).Inc()
}

// ObserveRateLimitWait records one upstream cooldown wait.
func (m *Metrics) ObserveRateLimitWait() {
	if m == nil {
		return
	}
	m.RateLimitWaits.Inc()
}
