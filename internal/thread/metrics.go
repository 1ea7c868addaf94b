package thread

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports controller activity to Prometheus. A nil *Metrics records
// nothing.
type Metrics struct {
	iterations *prometheus.CounterVec
	hookErrors *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	state      *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vkshell",
			Subsystem: "thread",
			Name:      "iterations_total",
			Help:      "Loop iterations that returned.",
		}, []string{"thread"}),
		hookErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vkshell",
			Subsystem: "thread",
			Name:      "hook_errors_total",
			Help:      "Hook invocations that returned an error or panicked.",
		}, []string{"thread", "hook"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vkshell",
			Subsystem: "thread",
			Name:      "iteration_duration_seconds",
			Help:      "Duration of loop iterations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"thread"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "vkshell",
			Subsystem: "thread",
			Name:      "state",
			Help:      "Current controller state (0 not started, 1 idle, 2 looping, 3 destroying, 4 destroyed, 5 faulted).",
		}, []string{"thread"}),
	}

	for _, collector := range []prometheus.Collector{m.iterations, m.hookErrors, m.duration, m.state} {
		if err := reg.Register(collector); err != nil {
			return nil, errors.Wrap(err, "register thread metrics")
		}
	}

	return m, nil
}

func (m *Metrics) iterationDone(name string, d time.Duration) {
	if m == nil {
		return
	}
	m.iterations.WithLabelValues(name).Inc()
	m.duration.WithLabelValues(name).Observe(d.Seconds())
}

func (m *Metrics) hookFailed(name, hook string) {
	if m == nil {
		return
	}
	m.hookErrors.WithLabelValues(name, hook).Inc()
}

func (m *Metrics) observeState(name string, state State) {
	if m == nil {
		return
	}
	m.state.WithLabelValues(name).Set(float64(state))
}
