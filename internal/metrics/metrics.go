// Package metrics records synchronizer activity in a private prometheus
// registry. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels a settled attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeDiscarded Outcome = "discarded"
)

const namespace = "nimbus"

// Recorder wraps the collectors exported by the dashboard.
type Recorder struct {
	registry    *prometheus.Registry
	attempts    *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	keyFailures *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_attempts_total",
			Help:      "Fetch attempts settled by a synchronizer, by outcome.",
		}, []string{"synchronizer", "outcome"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_skipped_ticks_total",
			Help:      "Ticks skipped because the previous attempt was still outstanding.",
		}, []string{"synchronizer"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_attempt_duration_seconds",
			Help:      "Wall time of a fetch attempt.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"synchronizer"}),
		keyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanout_key_failures_total",
			Help:      "Per-key fetch failures inside fan-out rounds.",
		}, []string{"synchronizer"}),
	}
	reg.MustRegister(r.attempts, r.skipped, r.duration, r.keyFailures)
	return r
}

// RecordAttempt counts a settled attempt and its latency.
func (r *Recorder) RecordAttempt(name string, outcome Outcome, d time.Duration) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(name, string(outcome)).Inc()
	r.duration.WithLabelValues(name).Observe(d.Seconds())
}

// RecordSkippedTick counts a tick that overlapped an outstanding attempt.
func (r *Recorder) RecordSkippedTick(name string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(name).Inc()
}

// RecordKeyFailures adds n failed keys from one fan-out round.
func (r *Recorder) RecordKeyFailures(name string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.keyFailures.WithLabelValues(name).Add(float64(n))
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
