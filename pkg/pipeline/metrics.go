package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-step outcomes and durations.
type Metrics struct {
	StepsTotal   *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
}

// NewMetrics registers the pipeline collectors on reg, or on the default
// registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		StepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "craftadmin_pipeline_steps_total",
				Help: "Update pipeline steps executed, labeled by step and outcome.",
			},
			[]string{"step", "outcome"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "craftadmin_pipeline_step_duration_seconds",
				Help:    "Wall time of each update pipeline step in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step"},
		),
	}
	reg.MustRegister(m.StepsTotal)
	reg.MustRegister(m.StepDuration)
	return m
}

func (m *Metrics) observe(step string, outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.StepsTotal.WithLabelValues(step, string(outcome)).Inc()
	m.StepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
}
