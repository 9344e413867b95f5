package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Frame(0.01)
		m.RenderError()
		m.EffectBuilt("rain")
		m.EffectDisposed()
		m.WorkerStarted()
		m.WorkerFailed()
		m.Queue(3)
		m.Path("local")
		m.Strike()
	})
}

func TestRecorders(t *testing.T) {
	m := NewMetricsForTesting()

	m.EffectBuilt("snow")
	m.EffectBuilt("snow")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EffectBuilds.WithLabelValues("snow")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EffectActive))

	m.EffectDisposed()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.EffectActive))

	m.WorkerFailed()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks))

	m.Path("local")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PathActive.WithLabelValues("local")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PathActive.WithLabelValues("worker")))

	m.Frame(0.002)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesRendered))
}

func TestRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)
	m.Strike()

	n, err := testutil.GatherAndCount(reg, "weatherfx_lightning_strikes_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
