// Package metrics exposes Prometheus metrics for the careers API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medquest"

// Manager owns the service's collectors. A nil *Manager is valid and records
// nothing, which keeps wiring optional in tests.
type Manager struct {
	registry *prometheus.Registry

	applicationsSaved prometheus.Counter
	resumesUploaded   *prometheus.CounterVec
	scoresComputed    prometheus.Counter
	atsScore          prometheus.Histogram
	scoringLatency    prometheus.Histogram
	extractionErrors  *prometheus.CounterVec
	emailsSent        *prometheus.CounterVec
	exportRefreshes   *prometheus.CounterVec
	exportDuration    prometheus.Histogram
	rsvpResponses     *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager registers all collectors on a private registry.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Manager{
		registry: reg,
		applicationsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "applications_saved_total",
			Help: "Application detail forms stored.",
		}),
		resumesUploaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "resumes_uploaded_total",
			Help: "Resume uploads by file extension.",
		}, []string{"extension"}),
		scoresComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ats", Name: "scores_computed_total",
			Help: "ATS scores computed.",
		}),
		atsScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ats", Name: "score",
			Help:    "Distribution of computed ATS scores.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		scoringLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ats", Name: "scoring_duration_seconds",
			Help:    "Time spent scoring one application.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		extractionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ats", Name: "extraction_errors_total",
			Help: "Resume text extraction failures by reason.",
		}, []string{"reason"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "mail", Name: "messages_total",
			Help: "Emails attempted by kind and result.",
		}, []string{"kind", "result"}),
		exportRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "export", Name: "refreshes_total",
			Help: "Workbook regenerations by result.",
		}, []string{"result"}),
		exportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "export", Name: "duration_seconds",
			Help:    "Workbook regeneration time.",
			Buckets: prometheus.DefBuckets,
		}),
		rsvpResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rsvp_responses_total",
			Help: "Interview RSVP responses by recorded status.",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.applicationsSaved, m.resumesUploaded, m.scoresComputed, m.atsScore,
		m.scoringLatency, m.extractionErrors, m.emailsSent, m.exportRefreshes,
		m.exportDuration, m.rsvpResponses, m.httpRequests, m.httpRequestDuration,
	)
	return m
}

// Registry exposes the underlying registry for tests and custom handlers.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) ApplicationSaved() {
	if m == nil {
		return
	}
	m.applicationsSaved.Inc()
}

func (m *Manager) ResumeUploaded(ext string) {
	if m == nil {
		return
	}
	m.resumesUploaded.WithLabelValues(ext).Inc()
}

func (m *Manager) ScoreComputed(score int, took time.Duration) {
	if m == nil {
		return
	}
	m.scoresComputed.Inc()
	m.atsScore.Observe(float64(score))
	m.scoringLatency.Observe(took.Seconds())
}

func (m *Manager) ExtractionFailed(reason string) {
	if m == nil {
		return
	}
	m.extractionErrors.WithLabelValues(reason).Inc()
}

func (m *Manager) EmailAttempted(kind string, sent bool) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(kind, result(sent)).Inc()
}

func (m *Manager) ExportRefreshed(ok bool, took time.Duration) {
	if m == nil {
		return
	}
	m.exportRefreshes.WithLabelValues(result(ok)).Inc()
	m.exportDuration.Observe(took.Seconds())
}

func (m *Manager) RSVPRecorded(status string) {
	if m == nil {
		return
	}
	m.rsvpResponses.WithLabelValues(status).Inc()
}

func (m *Manager) HTTPRequest(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
