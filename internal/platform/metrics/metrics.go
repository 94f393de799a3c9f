package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	PolicyRequests     *prometheus.CounterVec
	RetryAttempts      *prometheus.CounterVec
	UpstreamDuration   *prometheus.HistogramVec
	PoliciesNormalized prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PolicyRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "axlepolicy_policy_requests_total",
			Help: "Total policy requests by carrier and outcome",
		}, []string{"carrier", "outcome"}),
		RetryAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "axlepolicy_retry_attempts_total",
			Help: "Upstream attempts by phase and result",
		}, []string{"phase", "result"}),
		UpstreamDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "axlepolicy_upstream_request_seconds",
			Help:    "Latency of outbound carrier calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"phase"}),
		PoliciesNormalized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "axlepolicy_policies_normalized_total",
			Help: "Total carrier payloads normalized into the canonical schema",
		}),
	}
}

// NewForTest creates Metrics on a private registry so parallel tests do not
// collide on the default registerer.
func NewForTest() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		PolicyRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "axlepolicy_policy_requests_total",
			Help: "Total policy requests by carrier and outcome",
		}, []string{"carrier", "outcome"}),
		RetryAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "axlepolicy_retry_attempts_total",
			Help: "Upstream attempts by phase and result",
		}, []string{"phase", "result"}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "axlepolicy_upstream_request_seconds",
			Help:    "Latency of outbound carrier calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"phase"}),
		PoliciesNormalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "axlepolicy_policies_normalized_total",
			Help: "Total carrier payloads normalized into the canonical schema",
		}),
	}
}

// ObservePolicyRequest records one inbound policy request outcome.
func (m *Metrics) ObservePolicyRequest(carrier, outcome string) {
	m.PolicyRequests.WithLabelValues(carrier, outcome).Inc()
}

// ObserveRetryAttempt records a single upstream attempt result for a phase.
func (m *Metrics) ObserveRetryAttempt(phase, result string) {
	m.RetryAttempts.WithLabelValues(phase, result).Inc()
}

// ObserveUpstreamDuration records the latency of one outbound call.
func (m *Metrics) ObserveUpstreamDuration(phase string, seconds float64) {
	m.UpstreamDuration.WithLabelValues(phase).Observe(seconds)
}

// IncrementPoliciesNormalized bumps the normalized payload counter.
func (m *Metrics) IncrementPoliciesNormalized() {
	m.PoliciesNormalized.Inc()
}
