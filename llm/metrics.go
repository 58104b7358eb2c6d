package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the LLM client's prometheus collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mentor",
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "LLM requests by provider, operation and outcome.",
		}, []string{"provider", "op", "outcome"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mentor",
			Subsystem: "llm",
			Name:      "retries_total",
			Help:      "LLM request retries by provider and operation.",
		}, []string{"provider", "op"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mentor",
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "LLM request latency, retries included.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 180},
		}, []string{"provider", "op"}),
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsTransient(err):
		return "transient_error"
	default:
		return "fatal_error"
	}
}
