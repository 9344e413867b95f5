// Package metrics holds the Prometheus instruments shared by the engine, renderer and worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weatherfx"

// Metrics holds counters, gauges and histograms for the overlay engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	FramesRendered prometheus.Counter
	FrameDuration  prometheus.Histogram
	RenderErrors   prometheus.Counter

	// Effect lifecycle.
	EffectBuilds    *prometheus.CounterVec // labels: effect
	EffectDisposals prometheus.Counter
	EffectActive    prometheus.Gauge

	// Execution path.
	WorkerStarts   prometheus.Counter
	WorkerFailures prometheus.Counter
	Fallbacks      prometheus.Counter
	QueuedMessages prometheus.Gauge
	PathActive     *prometheus.GaugeVec // labels: path={worker,local}

	Strikes prometheus.Counter
}

func newInstruments() *Metrics {
	return &Metrics{
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Total frames drawn and presented.",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent updating, drawing and presenting one frame.",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066},
		}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Frames aborted by a panic or a failed present.",
		}),
		EffectBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effect_builds_total",
			Help:      "Effect instances constructed, by effect tag.",
		}, []string{"effect"}),
		EffectDisposals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effect_disposals_total",
			Help:      "Effect instances disposed.",
		}),
		EffectActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "effect_active",
			Help:      "1 while an effect instance is live, 0 otherwise.",
		}),
		WorkerStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_starts_total",
			Help:      "Worker contexts spawned.",
		}),
		WorkerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_failures_total",
			Help:      "Worker initialization or runtime errors received.",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Demotions from the worker path to the in-process renderer.",
		}),
		QueuedMessages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queued_messages",
			Help:      "Messages waiting for the worker to report ready.",
		}),
		PathActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "path_active",
			Help:      "1 for the execution path currently rendering.",
		}, []string{"path"}),
		Strikes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lightning_strikes_total",
			Help:      "Lightning strikes fired by any effect.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FramesRendered,
		m.FrameDuration,
		m.RenderErrors,
		m.EffectBuilds,
		m.EffectDisposals,
		m.EffectActive,
		m.WorkerStarts,
		m.WorkerFailures,
		m.Fallbacks,
		m.QueuedMessages,
		m.PathActive,
		m.Strikes,
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newInstruments()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsWithRegistry registers on reg, for hosts that expose their own registry.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newInstruments()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics with no registration to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newInstruments()
}

// ===== NIL-SAFE RECORDERS =====

// Frame records one presented frame.
func (m *Metrics) Frame(seconds float64) {
	if m == nil {
		return
	}
	m.FramesRendered.Inc()
	m.FrameDuration.Observe(seconds)
}

// RenderError counts an aborted frame.
func (m *Metrics) RenderError() {
	if m == nil {
		return
	}
	m.RenderErrors.Inc()
}

// EffectBuilt counts a constructed effect and marks one active.
func (m *Metrics) EffectBuilt(tag string) {
	if m == nil {
		return
	}
	m.EffectBuilds.WithLabelValues(tag).Inc()
	m.EffectActive.Set(1)
}

// EffectDisposed counts a disposal and clears the active gauge.
func (m *Metrics) EffectDisposed() {
	if m == nil {
		return
	}
	m.EffectDisposals.Inc()
	m.EffectActive.Set(0)
}

// WorkerStarted counts a spawned worker.
func (m *Metrics) WorkerStarted() {
	if m == nil {
		return
	}
	m.WorkerStarts.Inc()
}

// WorkerFailed counts a worker error and the demotion it causes.
func (m *Metrics) WorkerFailed() {
	if m == nil {
		return
	}
	m.WorkerFailures.Inc()
	m.Fallbacks.Inc()
}

// Queue sets the pending message gauge.
func (m *Metrics) Queue(n int) {
	if m == nil {
		return
	}
	m.QueuedMessages.Set(float64(n))
}

// Path marks which execution path renders; empty clears both.
func (m *Metrics) Path(path string) {
	if m == nil {
		return
	}
	for _, p := range []string{"worker", "local"} {
		v := 0.0
		if p == path {
			v = 1
		}
		m.PathActive.WithLabelValues(p).Set(v)
	}
}

// Strike counts a lightning strike.
func (m *Metrics) Strike() {
	if m == nil {
		return
	}
	m.Strikes.Inc()
}
