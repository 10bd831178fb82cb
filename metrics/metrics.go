// SPDX-License-Identifier: MIT

// Package metrics exports inversion runs as Prometheus metrics.
//
// A Recorder is an inversion.Observer: register it with
// inversion.WithObserver and every run on that Engine is counted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/geoinv/inversion"
)

const (
	namespace = "geoinv"
	subsystem = "inversion"
)

// Recorder holds the inversion collectors. Safe for concurrent use.
type Recorder struct {
	runs        *prometheus.CounterVec
	iterations  prometheus.Counter
	perRun      prometheus.Histogram
	finalRMS    prometheus.Histogram
	duration    *prometheus.HistogramVec
	escalations prometheus.Counter
	rejected    prometheus.Counter
}

var _ inversion.Observer = (*Recorder)(nil)

// NewRecorder registers the collectors on reg. A nil reg means
// prometheus.DefaultRegisterer.
//
// Panics when the collectors are already registered on reg, as promauto does.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Finished inversion runs by terminal state",
		}, []string{"state"}),
		iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "iterations_total",
			Help:      "Completed solve iterations across all runs",
		}),
		perRun: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "iterations_per_run",
			Help:      "Iterations completed per run",
			Buckets:   []float64{1, 2, 3, 5, 8, 10, 15, 20, 30, 50, 100},
		}),
		finalRMS: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "final_rms",
			Help:      "Solve-space RMS misfit of the returned model",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2},
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Wall time per run by terminal state",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"state"}),
		escalations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "damping_escalations_total",
			Help:      "Tenfold damping increases after a failed factorization",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rejected_readings_total",
			Help:      "Readings dropped during initialisation",
		}),
	}
}

// IterationDone counts one iteration.
func (r *Recorder) IterationDone(inversion.Progress) {
	r.iterations.Inc()
}

// RunFinished records the outcome of a run. FinalRMS is only observed for
// runs that returned a model.
func (r *Recorder) RunFinished(s inversion.Summary) {
	state := s.State.String()
	r.runs.WithLabelValues(state).Inc()
	r.duration.WithLabelValues(state).Observe(s.Runtime.Seconds())
	r.perRun.Observe(float64(s.Iterations))
	r.escalations.Add(float64(s.Escalations))
	r.rejected.Add(float64(s.Rejected))
	if s.Err == nil {
		r.finalRMS.Observe(s.FinalRMS)
	}
}
