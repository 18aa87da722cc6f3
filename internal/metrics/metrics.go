// Package metrics records what a recording run sent to the host.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for host commands.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors for one run on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	stepsPlayed     prometheus.Gauge
	stepsTotal      prometheus.Gauge
	lastSuccess     prometheus.Gauge
}

// New creates and registers the run collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitcam_host_commands_total",
				Help: "Total number of commands sent to the visualization host.",
			},
			[]string{"method", "result"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orbitcam_host_command_duration_seconds",
				Help:    "Round-trip time of host commands in seconds.",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			},
			[]string{"method"},
		),
		stepsPlayed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orbitcam_script_steps_played",
			Help: "Number of script steps completed in this run.",
		}),
		stepsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orbitcam_script_steps",
			Help: "Number of steps in the script being played.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orbitcam_last_success_timestamp_seconds",
			Help: "Unix time the last complete recording run finished.",
		}),
	}

	m.Registry.MustRegister(
		m.commandsTotal,
		m.commandDuration,
		m.stepsPlayed,
		m.stepsTotal,
		m.lastSuccess,
	)
	return m
}

// ObserveCommand records one host command and how long it took.
func (m *Metrics) ObserveCommand(method string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.commandsTotal.WithLabelValues(method, result).Inc()
	m.commandDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ScriptStarted records the length of the script about to be played.
func (m *Metrics) ScriptStarted(steps int) {
	if m == nil {
		return
	}
	m.stepsTotal.Set(float64(steps))
	m.stepsPlayed.Set(0)
}

// StepDone counts one completed step.
func (m *Metrics) StepDone() {
	if m == nil {
		return
	}
	m.stepsPlayed.Inc()
}

// RunSucceeded stamps the completion time of a full run.
func (m *Metrics) RunSucceeded(at time.Time) {
	if m == nil {
		return
	}
	m.lastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
