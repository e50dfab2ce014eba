// Package observability holds the prometheus collectors for the interview
// lifecycle. Collectors are registered on a caller-provided registry so tests
// can use an isolated one.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts interview and configuration activity.
type Metrics struct {
	InterviewsStarted   prometheus.Counter
	InterviewsCompleted prometheus.Counter
	InterviewTimeouts   prometheus.Counter
	ConfigUpdates       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InterviewsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "questions_interviews_started_total",
			Help: "Interviews triggered by a thread becoming ready",
		}),
		InterviewsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "questions_interviews_completed_total",
			Help: "Interviews that reached the summary",
		}),
		InterviewTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "questions_interview_timeouts_total",
			Help: "Interviews aborted because the recipient stopped responding",
		}),
		ConfigUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "questions_config_updates_total",
			Help: "Successful configuration flow completions",
		}, []string{"flow"}),
	}
	if reg != nil {
		reg.MustRegister(m.InterviewsStarted, m.InterviewsCompleted, m.InterviewTimeouts, m.ConfigUpdates)
	}
	return m
}

// NewNopMetrics returns unregistered collectors for tests and callers that
// do not export metrics.
func NewNopMetrics() *Metrics {
	return NewMetrics(nil)
}
