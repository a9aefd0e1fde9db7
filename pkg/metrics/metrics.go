package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge
	RateLimited     *prometheus.CounterVec

	ClientsCreatedTotal prometheus.Counter
	SignaturesCaptured  *prometheus.CounterVec
	SignaturesRejected  *prometheus.CounterVec
	PainAreaSubmissions *prometheus.CounterVec
	StrokesRecorded     *prometheus.CounterVec
	LiveSessions        prometheus.Gauge
	RenderDuration      *prometheus.HistogramVec

	AuditEntriesTotal  prometheus.Counter
	AuditBufferDropped prometheus.Counter
}

// NewCollector registers the service collectors on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewCollector(serviceName string, reg prometheus.Registerer) *Collector {
	ns := namespace(serviceName)
	f := promauto.With(reg)

	return &Collector{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"scope"}),

		ClientsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "intake",
			Name:      "clients_created_total",
			Help:      "Total number of client records created.",
		}),

		SignaturesCaptured: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "intake",
			Name:      "signatures_captured_total",
			Help:      "Signed documents stored, by document kind.",
		}, []string{"kind"}),

		SignaturesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "intake",
			Name:      "signatures_rejected_total",
			Help:      "Signing attempts cancelled, by reason.",
		}, []string{"reason"}),

		PainAreaSubmissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "intake",
			Name:      "pain_area_submissions_total",
			Help:      "Pain area submissions by source (form or live).",
		}, []string{"source"}),

		StrokesRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "canvas",
			Name:      "strokes_recorded_total",
			Help:      "Strokes replayed onto server-side pads, by mode.",
		}, []string{"mode"}),

		LiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "canvas",
			Name:      "live_sessions",
			Help:      "Open live drawing sessions.",
		}),

		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "canvas",
			Name:      "render_duration_seconds",
			Help:      "Time spent rasterising and encoding canvas images.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"target"}),

		AuditEntriesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		AuditBufferDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "audit",
			Name:      "buffer_dropped_total",
			Help:      "Audit entries dropped due to full buffer. Alert if non-zero.",
		}),
	}
}

func namespace(serviceName string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(serviceName)
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
