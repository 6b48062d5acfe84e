package observability

import (
	"context"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors fed by the controller hooks.
type Metrics struct {
	RunsStarted  *prometheus.CounterVec
	RunsFinished *prometheus.CounterVec
	Steps        *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	Restores     *prometheus.CounterVec
	ActiveRuns   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sortstep_runs_started_total",
				Help: "Total number of runs started",
			},
			[]string{"algorithm"},
		),
		RunsFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sortstep_runs_finished_total",
				Help: "Total number of runs finished, by outcome",
			},
			[]string{"algorithm", "outcome"},
		),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sortstep_steps_total",
				Help: "Total number of step events emitted",
			},
			[]string{"algorithm", "type"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sortstep_run_duration_seconds",
				Help:    "Wall-clock duration of runs, delays included",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4m
			},
			[]string{"algorithm"},
		),
		Restores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sortstep_restores_total",
				Help: "Array replacements made outside runs",
			},
			[]string{"reason"},
		),
		ActiveRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sortstep_active_runs",
			Help: "Runs currently in flight",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RunsStarted, m.RunsFinished, m.Steps, m.RunDuration, m.Restores, m.ActiveRuns)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.RunsStarted.WithLabelValues(string(e.Summary.Algorithm)).Inc()
			m.ActiveRuns.Inc()
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(string(e.Algorithm), string(e.Type)).Inc()
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			alg := string(e.Summary.Algorithm)
			m.RunsFinished.WithLabelValues(alg, string(e.Summary.Outcome)).Inc()
			m.RunDuration.WithLabelValues(alg).Observe(e.Summary.Duration().Seconds())
			m.ActiveRuns.Dec()
		},
		OnRestore: func(_ context.Context, e *domain.RestoreEvent) {
			m.Restores.WithLabelValues(e.Reason).Inc()
		},
	}
}
