// Package metrics counts API traffic in a Prometheus registry owned by the
// SDK instance.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cellgit/BearBasic/internal/envelope"
)

// StatusTransportError labels requests that never produced an HTTP status.
const StatusTransportError = "error"

// Metrics holds the SDK collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CodesTotal      *prometheus.CounterVec
}

// New registers the collectors in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bear_api_requests_total",
			Help: "Total number of API requests",
		}, []string{"method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bear_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 30, 300},
		}, []string{"method"}),
		CodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bear_api_codes_total",
			Help: "Envelope codes reported to the notifier",
		}, []string{"code"}),
	}
}

// ObserveRequest records one round trip. status 0 means the transport failed.
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := StatusTransportError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RequestsTotal.WithLabelValues(method, label).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveCode counts a reported envelope code.
func (m *Metrics) ObserveCode(code int) {
	if m == nil {
		return
	}
	m.CodesTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}

// Notifier counts every code before handing it to next.
func (m *Metrics) Notifier(next envelope.Notifier) envelope.Notifier {
	return envelope.NotifyFunc(func(code int, message string) {
		m.ObserveCode(code)
		if next != nil {
			next.Notify(code, message)
		}
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
