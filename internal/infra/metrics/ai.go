package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiTokensIn,
		aiTokensOut,
		aiCallsLatencyMs,
		aiWebSearchesTotal,
		aiParseFallbacksTotal,
	)
}

var (
	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of prompt (input) tokens per provider/model.",
		},
		[]string{"provider", "model"},
	)

	aiTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Sum of completion (output) tokens per provider/model.",
		},
		[]string{"provider", "model"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "AI call latency distribution in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
		},
		[]string{"provider", "model", "success"},
	)

	aiWebSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_web_searches_total",
			Help: "Count of hosted web search invocations per provider/model.",
		},
		[]string{"provider", "model"},
	)

	aiParseFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_parse_fallbacks_total",
			Help: "Count of stage outputs that needed lenient JSON recovery or failed outright.",
		},
		[]string{"agent", "outcome"}, // outcome: 'repaired', 'failed'
	)
)

func ObserveCompletion(provider, model string, tokensIn, tokensOut, webSearches, latencyMs int, success bool) {
	lbl := []string{norm(provider), norm(model)}
	aiTokensIn.WithLabelValues(lbl...).Add(float64(tokensIn))
	aiTokensOut.WithLabelValues(lbl...).Add(float64(tokensOut))
	aiWebSearchesTotal.WithLabelValues(lbl...).Add(float64(webSearches))
	aiCallsLatencyMs.WithLabelValues(norm(provider), norm(model), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func IncParseFallback(agent, outcome string) {
	aiParseFallbacksTotal.WithLabelValues(norm(agent), norm(outcome)).Inc()
}
