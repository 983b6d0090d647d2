package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	submissionsTotal *prometheus.CounterVec
	documentsTotal   *prometheus.CounterVec
	uploadDuration   *prometheus.HistogramVec
	eligibilityTotal *prometheus.CounterVec
	reviewsTotal     *prometheus.CounterVec
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iledu",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "iledu",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "iledu",
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	submissionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iledu",
			Subsystem: "loan",
			Name:      "submissions_total",
			Help:      "Loan application submissions by outcome.",
		},
		[]string{"outcome"},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iledu",
			Subsystem: "loan",
			Name:      "document_uploads_total",
			Help:      "Document uploads by document type and outcome.",
		},
		[]string{"document_type", "outcome"},
	)
	uploadDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "iledu",
			Subsystem: "loan",
			Name:      "document_upload_duration_seconds",
			Help:      "Object storage upload duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"document_type"},
	)
	eligibilityTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iledu",
			Subsystem: "loan",
			Name:      "eligibility_checks_total",
			Help:      "Eligibility gate evaluations by result.",
		},
		[]string{"can_apply"},
	)
	reviewsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iledu",
			Subsystem: "loan",
			Name:      "reviews_total",
			Help:      "Reviewer status decisions.",
		},
		[]string{"status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		submissionsTotal,
		documentsTotal,
		uploadDuration,
		eligibilityTotal,
		reviewsTotal,
	)

	return &Metrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		submissionsTotal: submissionsTotal,
		documentsTotal:   documentsTotal,
		uploadDuration:   uploadDuration,
		eligibilityTotal: eligibilityTotal,
		reviewsTotal:     reviewsTotal,
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RequestStarted() {
	m.requestInFlight.Inc()
}

func (m *Metrics) RequestFinished(method, path string, status int, elapsed time.Duration) {
	m.requestInFlight.Dec()
	m.requestTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordSubmission(outcome string) {
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordDocumentUpload(documentType, outcome string, elapsed time.Duration) {
	m.documentsTotal.WithLabelValues(documentType, outcome).Inc()
	m.uploadDuration.WithLabelValues(documentType).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordEligibility(canApply bool) {
	label := "false"
	if canApply {
		label = "true"
	}
	m.eligibilityTotal.WithLabelValues(label).Inc()
}

func (m *Metrics) RecordReview(status string) {
	m.reviewsTotal.WithLabelValues(status).Inc()
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
