package supervisor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Supervisor's private Prometheus registry.
// cmd/meshd may optionally expose Registry() on a loopback /metrics
// endpoint; nothing in the core loop depends on that being wired up.
type metrics struct {
	registry       *prometheus.Registry
	loopIterations prometheus.Histogram
	loopErrors     prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		loopIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meshd",
			Subsystem: "supervisor",
			Name:      "loop_iteration_duration_seconds",
			Help:      "Wall-clock time spent in one service loop iteration, excluding the final interruptible sleep.",
			Buckets:   prometheus.DefBuckets,
		}),
		loopErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meshd",
			Subsystem: "supervisor",
			Name:      "loop_errors_total",
			Help:      "Count of non-fatal errors encountered by phase checks within the service loop.",
		}),
	}
	reg.MustRegister(m.loopIterations, m.loopErrors)
	return m
}

func (m *metrics) observeIteration(d time.Duration) {
	m.loopIterations.Observe(d.Seconds())
}

// Registry returns the Supervisor's private Prometheus registry.
func (s *Supervisor) Registry() *prometheus.Registry {
	return s.metrics.registry
}
