// Package monitoring exposes Prometheus metrics for the prediction service.
package monitoring

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"heartrisk/predictor"
)

// Metrics holds the service collectors on a private registry so that tests
// can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	Predictions       *prometheus.CounterVec
	InferenceFailures prometheus.Counter
	InvalidInputs     prometheus.Counter
	ModelAvailable    prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Predictions served, by verdict",
			},
			[]string{"verdict"},
		),
		InferenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_failures_total",
			Help:      "Predictions that failed inside the model",
		}),
		InvalidInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_submissions_total",
			Help:      "Submissions rejected before inference",
		}),
		ModelAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_available",
			Help:      "1 when the model artifact loaded, 0 otherwise",
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.Predictions,
		m.InferenceFailures,
		m.InvalidInputs,
		m.ModelAvailable,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// ObservePrediction implements predictor.Observer.
func (m *Metrics) ObservePrediction(outcome predictor.Outcome, err error) {
	if err != nil {
		var inferErr *predictor.InferenceError
		if errors.As(err, &inferErr) {
			m.InferenceFailures.Inc()
		}
		return
	}
	m.Predictions.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) SetModelAvailable(ok bool) {
	if ok {
		m.ModelAvailable.Set(1)
		return
	}
	m.ModelAvailable.Set(0)
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests and for extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
