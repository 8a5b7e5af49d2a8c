package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketlens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"route"},
	)

	// Market data provider metrics
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_provider_calls_total",
			Help: "Total number of market data provider calls",
		},
		[]string{"endpoint", "status"}, // status: success|error
	)

	// AI metrics
	AICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_ai_calls_total",
			Help: "Total number of chat completion calls",
		},
		[]string{"model", "status"}, // status: success|error
	)

	AITokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_ai_tokens_total",
			Help: "Total tokens used by analysis generation",
		},
		[]string{"model", "type"}, // type: input|output
	)

	// Analysis pipeline metrics
	AnalysisRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_analysis_runs_total",
			Help: "Total number of analysis pipeline runs",
		},
		[]string{"style", "status"},
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketlens_analysis_duration_seconds",
			Help:    "Analysis pipeline duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"style"},
	)
)

// Register registers all collectors with the default registry.
// Call once at startup.
func Register() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		ProviderCalls,
		AICalls,
		AITokens,
		AnalysisRuns,
		AnalysisDuration,
	)
}

// Handler returns the HTTP handler exposing the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
