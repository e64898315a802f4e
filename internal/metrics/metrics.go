// Package metrics exposes Prometheus instrumentation for the HTTP server
// and websocket hub.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	WebsocketClients prometheus.Gauge
	BroadcastsTotal  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shophouse",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shophouse",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		WebsocketClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "shophouse",
			Name:      "websocket_clients",
			Help:      "Number of currently connected websocket clients.",
		}),
		BroadcastsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shophouse",
			Name:      "broadcasts_total",
			Help:      "Total websocket broadcasts by message type.",
		}, []string{"type"}),
	}
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
