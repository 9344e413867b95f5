package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snowWithAccumulation(t *testing.T) *SnowEffect {
	t.Helper()
	ctx := testContext(Snow)
	ctx.Extras.SnowAccumulation = true
	s, ok := New(ctx).(*SnowEffect)
	require.True(t, ok)
	require.NotNil(t, s.Accumulation())
	return s
}

func card(id string, x float64) SnowSurface {
	return SnowSurface{ID: id, X: x, Y: 400, Width: 300, Thickness: 12, CornerRadius: 16}
}

func TestSurfaceReconcile(t *testing.T) {
	s := snowWithAccumulation(t)
	acc := s.Accumulation()

	s.SetSnowSurfaces([]SnowSurface{card("card-1", 40), card("card-3", 900)})
	require.Equal(t, 2, acc.LayerCount())
	layer1 := acc.Layer("card-1")
	layer3 := acc.Layer("card-3")
	require.NotNil(t, layer1)
	require.NotNil(t, layer3)

	particles := s.points

	moved := card("card-3", 1000)
	s.SetSnowSurfaces([]SnowSurface{moved, card("card-2", 500)})

	assert.True(t, layer1.Disposed())
	assert.Nil(t, acc.Layer("card-1"))
	assert.Same(t, layer3, acc.Layer("card-3"), "untouched surface keeps its layer")
	assert.Equal(t, moved, layer3.Surface(), "kept layer is updated in place")
	assert.NotNil(t, acc.Layer("card-2"))

	assert.Equal(t, AccumulationStats{Built: 3, Disposed: 1}, acc.Stats())
	assert.Same(t, particles, s.points, "global particle system is not rebuilt")
}

func TestSurfaceReconcileEmptyAndDuplicates(t *testing.T) {
	s := snowWithAccumulation(t)
	acc := s.Accumulation()

	s.SetSnowSurfaces([]SnowSurface{card("a", 0), card("a", 10), {ID: ""}})
	assert.Equal(t, 1, acc.LayerCount())

	s.SetSnowSurfaces(nil)
	assert.Zero(t, acc.LayerCount())
	assert.Equal(t, AccumulationStats{Built: 1, Disposed: 1}, acc.Stats())
}

func TestSurfacesIgnoredWithoutAccumulation(t *testing.T) {
	s := New(testContext(Snow)).(*SnowEffect)
	assert.Nil(t, s.Accumulation())
	assert.NotPanics(t, func() { s.SetSnowSurfaces([]SnowSurface{card("card-1", 0)}) })
}

func TestDisposeReleasesLayers(t *testing.T) {
	s := snowWithAccumulation(t)
	acc := s.Accumulation()
	s.SetSnowSurfaces([]SnowSurface{card("card-1", 0), card("card-2", 400)})

	s.Dispose()
	s.Dispose()
	assert.Equal(t, AccumulationStats{Built: 2, Disposed: 2}, acc.Stats())
	assert.Zero(t, acc.LayerCount())

	// Late updates after dispose are dropped
	s.SetSnowSurfaces([]SnowSurface{card("card-3", 0)})
	assert.Zero(t, acc.LayerCount())
}

func TestCycleLevelEnvelope(t *testing.T) {
	assert.Zero(t, cycleLevel(0))
	assert.Equal(t, 1.0, cycleLevel(25)) // hold
	assert.InDelta(t, 0.0, cycleLevel(38), 1e-9)
	assert.Less(t, cycleLevel(35), 1.0) // fading
	mid := cycleLevel(10)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)
}

func TestCapEdgesFadeWithCornerRadius(t *testing.T) {
	tex := newNoiseTexture(capNoiseWidth, capNoiseHeight, capNoiseFreq, 1)
	layer := &SurfaceLayer{surface: card("c", 0), level: 1}

	_, edge := capShade(layer, tex, 0, 1)
	_, center := capShade(layer, tex, 0.5, 1)
	assert.Zero(t, edge)
	assert.Positive(t, center)

	layer.surface.CornerRadius = 0
	_, square := capShade(layer, tex, 0, 1)
	assert.Positive(t, square)
}

func TestCapFollowsCycle(t *testing.T) {
	tex := newNoiseTexture(capNoiseWidth, capNoiseHeight, capNoiseFreq, 1)
	layer := &SurfaceLayer{surface: card("c", 0)}

	_, a := capShade(layer, tex, 0.5, 0.5)
	assert.Zero(t, a, "empty before accumulating")

	layer.level = 1
	_, a = capShade(layer, tex, 0.5, 0.5)
	assert.Positive(t, a)
}

func TestAccumulationDrawsOnSurface(t *testing.T) {
	s := snowWithAccumulation(t)
	s.SetSnowSurfaces([]SnowSurface{card("card-1", 200)})
	s.Update(0.016, 25) // hold phase, full level

	ctx := testContext(Snow)
	buf := drawFrame(s, ctx)

	// Surface top edge at y=400px of 1080 maps to row 16 of 45; the cap sits just above
	left := 200.0 + 150
	cx := int(left / 1920 * 160)
	cell, touched := buf.At(cx, 16)
	if !touched {
		cell, touched = buf.At(cx, 15)
	}
	assert.True(t, touched)
	assert.Positive(t, cell.BgAlpha)
}
