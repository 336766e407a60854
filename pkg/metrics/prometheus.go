package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	alertsReceived *prometheus.CounterVec
	ordersTotal    *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		alertsReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traderelay_alerts_received_total",
				Help: "Total number of webhook alerts received",
			},
			[]string{"source"},
		),
		ordersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traderelay_orders_total",
				Help: "Total number of forwarded orders by outcome",
			},
			[]string{"outcome", "symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traderelay_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "traderelay_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAlert records a received webhook alert.
func (r *Recorder) RecordAlert(source string) {
	r.alertsReceived.WithLabelValues(source).Inc()
}

// RecordOrder records a forwarded order outcome.
func (r *Recorder) RecordOrder(outcome, symbol string) {
	r.ordersTotal.WithLabelValues(outcome, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
