// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by chi route pattern, not raw path,
	// so cahier ids do not explode cardinality.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cahier_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cahier_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cahier_http_active_requests",
			Help: "Number of HTTP requests being served",
		},
	)

	// LoginAttempts labels: outcome = success | failure | error.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cahier_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cahier_registrations_total",
			Help: "Total number of registration attempts",
		},
		[]string{"outcome"},
	)

	// CahierSaves labels: mode = create | update | legacy.
	CahierSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cahier_saves_total",
			Help: "Total number of cahier saves",
		},
		[]string{"mode", "outcome"},
	)

	CommunicationsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cahier_communications_written_total",
			Help: "Communication rows written, by operation",
		},
		[]string{"op"},
	)

	PDFExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cahier_pdf_exports_total",
			Help: "Total number of PDF exports",
		},
		[]string{"outcome"},
	)

	PDFRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cahier_pdf_render_duration_seconds",
			Help:    "Time spent rendering PDF exports",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(start bool) {
	if start {
		HTTPActiveRequests.Inc()
		return
	}
	HTTPActiveRequests.Dec()
}

func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

func RecordRegistration(outcome string) {
	Registrations.WithLabelValues(outcome).Inc()
}

// RecordCahierSave records a save attempt and, on success, the rows written.
func RecordCahierSave(mode string, inserted, updated int, err error) {
	if err != nil {
		CahierSaves.WithLabelValues(mode, "error").Inc()
		return
	}
	CahierSaves.WithLabelValues(mode, "success").Inc()
	CommunicationsWritten.WithLabelValues("insert").Add(float64(inserted))
	CommunicationsWritten.WithLabelValues("update").Add(float64(updated))
}

func RecordCommunicationDelete() {
	CommunicationsWritten.WithLabelValues("delete").Inc()
}

func RecordPDFExport(duration time.Duration, err error) {
	if err != nil {
		PDFExports.WithLabelValues("error").Inc()
		return
	}
	PDFExports.WithLabelValues("success").Inc()
	PDFRenderDuration.Observe(duration.Seconds())
}
