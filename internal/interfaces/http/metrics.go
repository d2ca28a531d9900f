package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"
)

// MetricsRegistry holds all Prometheus metrics for the FSRI service
type MetricsRegistry struct {
	// HTTP request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Scoring pipeline metrics
	ScoringDuration *prometheus.HistogramVec
	AdapterDuration *prometheus.HistogramVec
	AdapterErrors   *prometheus.CounterVec

	// Rule engine metrics
	RuleReloads        *prometheus.CounterVec
	ActiveRules        prometheus.Gauge
	RecommendationsHit *prometheus.CounterVec

	// Cache performance metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// WebSocket metrics
	WSClients prometheus.Gauge
}

// NewMetricsRegistry creates a metrics registry registered on the
// default Prometheus registerer.
func NewMetricsRegistry() *MetricsRegistry {
	return NewMetricsRegistryOn(prometheus.DefaultRegisterer)
}

// NewMetricsRegistryOn creates a metrics registry registered on reg.
func NewMetricsRegistryOn(reg prometheus.Registerer) *MetricsRegistry {
	registry := &MetricsRegistry{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsri_http_requests_total",
				Help: "Total HTTP requests by endpoint and status code",
			},
			[]string{"endpoint", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsri_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"endpoint"},
		),

		ScoringDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsri_scoring_duration_seconds",
				Help:    "End-to-end scoring pipeline duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"crop", "region"},
		),

		AdapterDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsri_adapter_duration_seconds",
				Help:    "Per-pillar adapter fetch duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"pillar"},
		),

		AdapterErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsri_adapter_errors_total",
				Help: "Upstream adapter failures by pillar",
			},
			[]string{"pillar"},
		),

		RuleReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsri_rule_reloads_total",
				Help: "Rule document reload attempts by result",
			},
			[]string{"result"},
		),

		ActiveRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fsri_active_rules",
				Help: "Number of rules in the active rule document",
			},
		),

		RecommendationsHit: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsri_recommendations_total",
				Help: "Triggered rule recommendations by persona",
			},
			[]string{"persona"},
		),

		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsri_cache_hits_total",
				Help: "Upstream response cache hits by source",
			},
			[]string{"source"},
		),

		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsri_cache_misses_total",
				Help: "Upstream response cache misses by source",
			},
			[]string{"source"},
		),

		WSClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fsri_ws_clients",
				Help: "Currently connected websocket score subscribers",
			},
		),
	}

	reg.MustRegister(
		registry.RequestsTotal,
		registry.RequestDuration,
		registry.ScoringDuration,
		registry.AdapterDuration,
		registry.AdapterErrors,
		registry.RuleReloads,
		registry.ActiveRules,
		registry.RecommendationsHit,
		registry.CacheHits,
		registry.CacheMisses,
		registry.WSClients,
	)

	return registry
}

// ScoringObserved records one completed scoring run. Satisfies the
// pipeline's observer contract.
func (m *MetricsRegistry) ScoringObserved(crop, region string, duration time.Duration) {
	m.ScoringDuration.WithLabelValues(crop, region).Observe(duration.Seconds())

	log.Debug().
		Str("crop", crop).
		Str("region", region).
		Dur("duration", duration).
		Msg("Scoring run completed")
}

// AdapterObserved records one pillar adapter call
func (m *MetricsRegistry) AdapterObserved(pillar string, duration time.Duration) {
	m.AdapterDuration.WithLabelValues(pillar).Observe(duration.Seconds())
}

// AdapterFallback records a pillar degrading to substitute data
func (m *MetricsRegistry) AdapterFallback(pillar string) {
	m.AdapterErrors.WithLabelValues(pillar).Inc()
	log.Warn().
		Str("pillar", pillar).
		Msg("Adapter degraded to fallback data")
}

// RecommendationsMatched counts triggered recommendations by persona
func (m *MetricsRegistry) RecommendationsMatched(persona string, count int) {
	m.RecommendationsHit.WithLabelValues(persona).Add(float64(count))
}

// CacheHit records an upstream response cache hit
func (m *MetricsRegistry) CacheHit(source string) {
	m.CacheHits.WithLabelValues(source).Inc()
}

// CacheMiss records an upstream response cache miss
func (m *MetricsRegistry) CacheMiss(source string) {
	m.CacheMisses.WithLabelValues(source).Inc()
}

// RecordReload records a rule reload attempt and, on success, the new
// active rule count.
func (m *MetricsRegistry) RecordReload(ok bool, ruleCount int) {
	if ok {
		m.RuleReloads.WithLabelValues("ok").Inc()
		m.ActiveRules.Set(float64(ruleCount))
		return
	}
	m.RuleReloads.WithLabelValues("rejected").Inc()
}

// RecordRequest records a completed HTTP request
func (m *MetricsRegistry) RecordRequest(endpoint string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(endpoint, statusClass(status)).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ReloadCount reads back the reload counter for the given result label.
// Used by the status endpoint and tests.
func (m *MetricsRegistry) ReloadCount(result string) float64 {
	metric := &io_prometheus_client.Metric{}
	counter, err := m.RuleReloads.GetMetricWithLabelValues(result)
	if err != nil {
		return 0
	}
	if err := counter.Write(metric); err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

// MetricsHandler returns an HTTP handler for Prometheus metrics
func (m *MetricsRegistry) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
