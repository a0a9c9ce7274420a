// Package metrics exposes Prometheus instruments for the argument pipeline.
// All recording methods are safe to call on a nil *Pipeline, so components
// built without metrics need no guards.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for analyze requests.
const (
	OutcomeOK        = "ok"
	OutcomeNoResults = "no_results"
	OutcomeInvalid   = "invalid"
	OutcomeUpstream  = "upstream_error"
	OutcomeError     = "error"
)

// Pipeline holds the instruments and the registry they are registered on.
type Pipeline struct {
	registry *prometheus.Registry

	analyzeTotal    *prometheus.CounterVec
	analyzeDuration *prometheus.HistogramVec
	queryFailures   *prometheus.CounterVec
	articlesPerQry  prometheus.Histogram
	upstreamLatency *prometheus.HistogramVec
}

// NewPipeline creates the instruments on a fresh registry.
func NewPipeline() *Pipeline {
	registry := prometheus.NewRegistry()

	analyzeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "argument_engine",
			Name:      "analyze_total",
			Help:      "Analyze requests by outcome.",
		},
		[]string{"outcome"},
	)
	analyzeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "argument_engine",
			Name:      "analyze_duration_seconds",
			Help:      "End-to-end analyze duration by outcome.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"outcome"},
	)
	queryFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "argument_engine",
			Subsystem: "corpus",
			Name:      "query_failures_total",
			Help:      "Expanded queries dropped from the corpus, by failing stage.",
		},
		[]string{"stage"},
	)
	articlesPerQry := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "argument_engine",
			Subsystem: "corpus",
			Name:      "articles_per_query",
			Help:      "Articles parsed per expanded query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
	upstreamLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "argument_engine",
			Subsystem: "upstream",
			Name:      "call_duration_seconds",
			Help:      "Outbound call duration by service and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(analyzeTotal, analyzeDuration, queryFailures, articlesPerQry, upstreamLatency)

	return &Pipeline{
		registry:        registry,
		analyzeTotal:    analyzeTotal,
		analyzeDuration: analyzeDuration,
		queryFailures:   queryFailures,
		articlesPerQry:  articlesPerQry,
		upstreamLatency: upstreamLatency,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Pipeline) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Pipeline) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveAnalyze records one analyze request.
func (m *Pipeline) ObserveAnalyze(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.analyzeTotal.WithLabelValues(outcome).Inc()
	m.analyzeDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// QueryFailed counts an expanded query dropped at stage ("retrieve" or "parse").
func (m *Pipeline) QueryFailed(stage string) {
	if m == nil {
		return
	}
	m.queryFailures.WithLabelValues(stage).Inc()
}

// ArticlesParsed records how many articles one query contributed.
func (m *Pipeline) ArticlesParsed(n int) {
	if m == nil {
		return
	}
	m.articlesPerQry.Observe(float64(n))
}

// ObserveUpstream records one outbound call to service.
func (m *Pipeline) ObserveUpstream(service string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.upstreamLatency.WithLabelValues(service, status).Observe(d.Seconds())
}
