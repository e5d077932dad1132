// Package metrics exposes pipeline counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quantum-pipeline/internal/domain"
)

const namespace = "qpipe"

// Session events counted by SessionEvent.
const (
	EventLogin        = "login"
	EventLoginFailed  = "login_failed"
	EventSignup       = "signup"
	EventSignupFailed = "signup_failed"
	EventLogout       = "logout"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry      *prometheus.Registry
	sessionEvents *prometheus.CounterVec
	jobsSubmitted *prometheus.CounterVec
	jobsFinished  *prometheus.CounterVec
	requests      *prometheus.CounterVec
}

// New registers the collectors. activeSessions, when non-nil, reports the
// number of live client sessions.
func New(activeSessions func() int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Authentication events by outcome.",
		}, []string{"event"}),
		jobsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_submitted_total",
			Help:      "Simulated jobs accepted by the manager.",
		}, []string{"kind"}),
		jobsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_finished_total",
			Help:      "Simulated jobs that reached a terminal status.",
		}, []string{"kind", "status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessionEvents,
		m.jobsSubmitted,
		m.jobsFinished,
		m.requests,
	)
	if activeSessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Client sessions currently held in memory.",
		}, func() float64 { return float64(activeSessions()) }))
	}
	return m
}

func (m *Metrics) SessionEvent(event string) {
	m.sessionEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) JobSubmitted(kind domain.JobKind) {
	m.jobsSubmitted.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) JobFinished(kind domain.JobKind, status domain.JobStatus) {
	m.jobsFinished.WithLabelValues(string(kind), string(status)).Inc()
}

func (m *Metrics) Request(route, code string) {
	m.requests.WithLabelValues(route, code).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
