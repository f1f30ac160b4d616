package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Sink names and results.
const (
	SinkFile  = "file"
	SinkEmail = "email"

	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// ContactMetrics counts contact submissions and the per-sink results of
// accepted ones. A nil *ContactMetrics is valid and records nothing.
type ContactMetrics struct {
	submissions *prometheus.CounterVec
	sinks       *prometheus.CounterVec
}

// NewContactMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_contact_submissions_total",
				Help: "Contact form submissions by validation outcome.",
			},
			[]string{"outcome"},
		),
		sinks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_contact_sink_results_total",
				Help: "Results of the file and email sinks for accepted submissions.",
			},
			[]string{"sink", "result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.submissions, m.sinks)
	}
	return m
}

// Submission records one submission outcome.
func (m *ContactMetrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// Sink records the result of one sink.
func (m *ContactMetrics) Sink(sink, result string) {
	if m == nil {
		return
	}
	m.sinks.WithLabelValues(sink, result).Inc()
}
