// Package metrics holds the Prometheus collectors exposed at GET /metrics.
//
//	streamflix_http_requests_total            counter: method, route, status
//	streamflix_http_request_duration_seconds  histogram: method, route
//	streamflix_auth_events_total              counter: event (signup|login), result
//	streamflix_catalog_requests_total         counter: op, result
//	streamflix_catalog_request_duration_seconds histogram: op
//	streamflix_watch_state_writes_total       counter: kind (watchlist_add|watchlist_remove|history)
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	AuthEvents       *prometheus.CounterVec
	CatalogRequests  *prometheus.CounterVec
	CatalogDuration  *prometheus.HistogramVec
	WatchStateWrites *prometheus.CounterVec
}

// New registers every collector on a fresh registry. Each call is
// independent, so tests can build as many as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streamflix_http_requests_total",
			Help: "Total HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streamflix_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AuthEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streamflix_auth_events_total",
			Help: "Auth events by type and result.",
		}, []string{"event", "result"}),
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streamflix_catalog_requests_total",
			Help: "Upstream catalog requests by operation and result.",
		}, []string{"op", "result"}),
		CatalogDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streamflix_catalog_request_duration_seconds",
			Help:    "Upstream catalog latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		WatchStateWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streamflix_watch_state_writes_total",
			Help: "Watchlist and watch history writes.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.AuthEvents,
		m.CatalogRequests,
		m.CatalogDuration,
		m.WatchStateWrites,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
