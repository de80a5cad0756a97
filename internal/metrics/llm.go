package metrics

import "github.com/prometheus/client_golang/prometheus"

// Answer composition (LLM) Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookdex",
			Name:      "llm_requests_total",
			Help:      "Total number of LLM completion requests",
		},
		[]string{"model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookdex",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM completion duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookdex",
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"model", "type"}, // type: "prompt" / "completion"
	)

	SearchDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bookdex",
			Name:      "search_degraded_total",
			Help:      "Searches that returned the fallback answer after a composition failure",
		},
	)
)

var llmMetricsRegistered bool

// RegisterLLMMetrics registers Prometheus LLM metrics. Must be called once from main.
func RegisterLLMMetrics() {
	if llmMetricsRegistered {
		return
	}
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(SearchDegradedTotal)
	llmMetricsRegistered = true
}
