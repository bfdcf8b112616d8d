// Package metrics registers the Prometheus instruments exposed on
// /metrics. Instruments are package-level and registered once via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by path and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_http_requests_total",
		Help: "HTTP requests served, by path and status code.",
	}, []string{"path", "status"})

	// RequestDuration observes HTTP request latency by path.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insight_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	// PipelineRuns counts pipeline executions by resolution path
	// (cache, fast_path, llm_path, synthesized).
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_pipeline_runs_total",
		Help: "Analysis pipeline executions, by resolution path.",
	}, []string{"path"})

	// CacheHits counts result-cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insight_result_cache_hits_total",
		Help: "Result cache hits.",
	})

	// CacheMisses counts result-cache misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insight_result_cache_misses_total",
		Help: "Result cache misses.",
	})

	// LLMFallbacks counts slow-path requests that fell back to the
	// deterministic synthesizer after an assistant failure.
	LLMFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insight_llm_fallbacks_total",
		Help: "Slow-path requests resolved by the deterministic synthesizer after an assistant failure.",
	})
)
