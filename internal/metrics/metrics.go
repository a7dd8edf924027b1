// Package metrics exposes Prometheus collectors for the frame loop.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Commit results.
const (
	ResultPublished = "published"
	ResultFailed    = "failed"
)

// Metrics groups the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Frames      *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Commits     *prometheus.CounterVec
	Intensity   *prometheus.GaugeVec
	Detect      prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mudra_frames_total",
				Help: "Frames processed, by outcome",
			},
			[]string{"outcome"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mudra_transitions_total",
				Help: "Interaction mode transitions",
			},
			[]string{"from", "to"},
		),
		Commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mudra_commits_total",
				Help: "Committed selections, by publish result",
			},
			[]string{"result"},
		),
		Intensity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mudra_intensity",
				Help: "Last intensity set for each option",
			},
			[]string{"option"},
		),
		Detect: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mudra_detect_duration_seconds",
				Help:    "Duration of landmark detection",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 8),
			},
		),
	}

	m.registry.MustRegister(
		m.Frames,
		m.Transitions,
		m.Commits,
		m.Intensity,
		m.Detect,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Frame counts one processed frame.
func (m *Metrics) Frame(outcome string) {
	m.Frames.WithLabelValues(outcome).Inc()
}

// Transition counts a mode change. Self transitions are not counted.
func (m *Metrics) Transition(from, to string) {
	if from == to {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

// Commit counts a commit and its publish result.
func (m *Metrics) Commit(published bool) {
	result := ResultPublished
	if !published {
		result = ResultFailed
	}
	m.Commits.WithLabelValues(result).Inc()
}

// SetIntensity records the current intensity of an option.
func (m *Metrics) SetIntensity(option, intensity int) {
	m.Intensity.WithLabelValues(strconv.Itoa(option)).Set(float64(intensity))
}
