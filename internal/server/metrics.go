package server

import (
	"net/http"
	"time"

	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
	"github.com/patelanuj7/calculatorapp/pkg/core/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the calculator's Prometheus collectors on a private
// registry
type Metrics struct {
	registry *prometheus.Registry

	Evaluations      *prometheus.CounterVec
	Duration         *prometheus.HistogramVec
	CacheHits        prometheus.Counter
	CacheHitRate     prometheus.GaugeFunc
	CacheEntries     prometheus.GaugeFunc
	WebSocketClients prometheus.Gauge
}

// NewMetrics creates and registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "calc",
				Name:      "evaluations_total",
				Help:      "Expressions evaluated, by source and outcome code.",
			},
			[]string{"source", "code"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "calc",
				Name:      "evaluation_duration_seconds",
				Help:      "Evaluation latency by source.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"source"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "calc",
			Name:      "cache_hits_total",
			Help:      "Evaluations answered from the result cache.",
		}),
		WebSocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "calc",
			Name:      "websocket_clients",
			Help:      "Open websocket connections.",
		}),
	}

	m.registry.MustRegister(
		m.Evaluations,
		m.Duration,
		m.CacheHits,
		m.WebSocketClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// WatchCache exports the hit rate and size of results. Only the first
// watched cache is exported.
func (m *Metrics) WatchCache(results *cache.ResultCache) {
	if results == nil || m.CacheHitRate != nil {
		return
	}
	m.CacheHitRate = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "calc",
		Name:      "cache_hit_rate_percent",
		Help:      "Share of result cache lookups answered from the cache.",
	}, results.HitRate)
	m.CacheEntries = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "calc",
		Name:      "cache_entries",
		Help:      "Outcomes held in the result cache.",
	}, func() float64 { return float64(results.Len()) })
	m.registry.MustRegister(m.CacheHitRate, m.CacheEntries)
}

// Observe records one evaluation
func (m *Metrics) Observe(source string, err error, duration time.Duration) {
	code := "OK"
	if err != nil {
		code = mdwerror.GetCode(err).String()
	}
	m.Evaluations.WithLabelValues(source, code).Inc()
	m.Duration.WithLabelValues(source).Observe(duration.Seconds())
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
