// Package metrics exposes timer instrumentation to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "worktimer"

// Metrics holds the collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	transitions         *prometheus.CounterVec
	ticks               prometheus.Counter
	elapsedSeconds      prometheus.Gauge
	running             prometheus.Gauge
	sessionsRecorded    prometheus.Counter
	hoursRecorded       prometheus.Counter
	recordingFailures   prometheus.Counter
	persistenceFailures prometheus.Counter
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "transitions_total", Help: "Timer transitions by type",
		}, []string{"transition"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ticks_total", Help: "Ticks counted while running",
		}),
		elapsedSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "elapsed_seconds", Help: "Elapsed seconds of the active timer",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "running", Help: "1 while the timer is running",
		}),
		sessionsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "time_entries_recorded_total", Help: "Time entries accepted by the sink",
		}),
		hoursRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hours_recorded_total", Help: "Hours accepted by the sink",
		}),
		recordingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "recording_failures_total", Help: "Time entries the sink rejected",
		}),
		persistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "persistence_failures_total", Help: "Snapshot reads or writes that failed",
		}),
	}
	m.registry.MustRegister(
		m.transitions, m.ticks, m.elapsedSeconds, m.running,
		m.sessionsRecorded, m.hoursRecorded, m.recordingFailures, m.persistenceFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveTransition updates counters and gauges after a state change
func (m *Metrics) ObserveTransition(transition string, elapsedSeconds int64, running bool) {
	if transition == "tick" {
		m.ticks.Inc()
	} else {
		m.transitions.WithLabelValues(transition).Inc()
	}
	m.elapsedSeconds.Set(float64(elapsedSeconds))
	if running {
		m.running.Set(1)
	} else {
		m.running.Set(0)
	}
}

// ObserveRecording counts a sink submission outcome
func (m *Metrics) ObserveRecording(hours float64, err error) {
	if err != nil {
		m.recordingFailures.Inc()
		return
	}
	m.sessionsRecorded.Inc()
	m.hoursRecorded.Add(hours)
}

// ObservePersistenceFailure counts a failed snapshot operation
func (m *Metrics) ObservePersistenceFailure(error) {
	m.persistenceFailures.Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
