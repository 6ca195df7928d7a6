// Package metrics provides Prometheus metrics for the normalization service.
package metrics

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

var (
	// TranslitEngineBuilds counts transliteration engines built.
	TranslitEngineBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "touchstone_translit_engine_builds_total",
		Help: "Total number of transliteration engines built.",
	})

	// TranslitEngineBuildSeconds observes engine build latency.
	TranslitEngineBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "touchstone_translit_engine_build_seconds",
		Help:    "Time taken to build a transliteration engine.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	// TranslitFallbacks counts strings rendered with the '?' placeholder.
	TranslitFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "touchstone_translit_fallbacks_total",
		Help: "Total number of transliterations that fell back to placeholders.",
	})

	// RequestsTotal counts handled requests by endpoint and outcome.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "touchstone_requests_total",
		Help: "Total number of handled requests, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// RequestSeconds observes request latency by endpoint.
	RequestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "touchstone_request_seconds",
		Help:    "Request latency, by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// SourceUp is 1 when the last availability check of an import source
	// answered 2xx or 3xx.
	SourceUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "touchstone_import_source_up",
		Help: "Whether the last HEAD check of an import source succeeded.",
	}, []string{"adapter"})

	// ImportEntries tracks the entry count of the last import per dictionary.
	ImportEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "touchstone_import_entries",
		Help: "Entries written by the last import, by dictionary.",
	}, []string{"dict"})
)

// TranslitOptions returns context options that feed the translit metrics
// and log fallbacks at WARN.
func TranslitOptions(logger *slog.Logger) []translit.Option {
	return []translit.Option{
		translit.WithBuildHook(func(d time.Duration) {
			TranslitEngineBuilds.Inc()
			TranslitEngineBuildSeconds.Observe(d.Seconds())
		}),
		translit.WithFallbackHook(func(text string, err error) {
			TranslitFallbacks.Inc()
			logger.Warn("transliteration fallback", "bytes", len(text), "error", err)
		}),
	}
}
