package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
)

func testContext(tag Tag) BuildContext {
	return BuildContext{
		ViewWidth:      render.LogicalWidth(1920, 1080),
		ViewHeight:     render.ViewHeight,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		PixelRatio:     1,
		Cols:           160,
		Rows:           45,
		Effect:         tag,
		Opacity:        1,
		Seed:           42,
	}
}

// drawFrame renders one frame of e into a fresh buffer
func drawFrame(e Effect, ctx BuildContext) *render.Buffer {
	buf := render.NewBuffer(ctx.Cols, ctx.Rows)
	cam := scene.NewCamera(ctx.View())
	e.Group().Draw(buf, cam)
	return buf
}

func TestFactoryBuildsEveryCatalogTag(t *testing.T) {
	for _, tag := range Tags() {
		t.Run(string(tag), func(t *testing.T) {
			e := New(testContext(tag))
			if tag == None {
				assert.Nil(t, e)
				return
			}
			require.NotNil(t, e)
			assert.False(t, e.Group().Disposed())
			e.Dispose()
			assert.True(t, e.Group().Disposed())
		})
	}
}

func TestFactoryMatching(t *testing.T) {
	tests := []struct {
		tag  Tag
		want any
	}{
		{RainStorm, &RainEffect{}},
		{"rain-monsoon", &RainEffect{}},
		{"snow-flurries", &SnowEffect{}},
		{"fog-sea", &FogEffect{}},
		{AcidRain, &AcidRainEffect{}},
		{MatrixRain, &DigitalRainEffect{}},
		{Lightning, &LightningEffect{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.IsType(t, tt.want, New(testContext(tt.tag)))
		})
	}

	for _, tag := range []Tag{"", None, "rainbow", "tornado", "snowman"} {
		assert.Nil(t, New(testContext(tag)), "tag %q", tag)
	}
}

func TestParse(t *testing.T) {
	tag, err := Parse(" Rain-Heavy ")
	require.NoError(t, err)
	assert.Equal(t, RainHeavy, tag)

	_, err = Parse("drought")
	assert.ErrorIs(t, err, ErrUnknownTag)

	assert.Equal(t, "rain", RainThunder.Family())
	assert.Equal(t, "acid-rain", AcidRain.Family())
}

func TestDisposeAndOpacityIdempotent(t *testing.T) {
	for _, tag := range Tags() {
		e := New(testContext(tag))
		if e == nil {
			continue
		}
		// Before any frame
		e.SetOpacity(40)
		e.SetOpacity(40)
		e.Dispose()
		e.Dispose()
		e.SetOpacity(10)
		assert.NotPanics(t, func() { e.Update(0.016, 1) }, "tag %s", tag)
	}
}

func TestSetOpacityNormalizes(t *testing.T) {
	r := NewRain(testContext(Rain), rainPresets[Rain])
	r.SetOpacity(150)
	assert.Equal(t, 1.0, r.Opacity())
	r.SetOpacity(-20)
	assert.Equal(t, 0.0, r.Opacity())
	r.SetOpacity(25)
	assert.InDelta(t, 0.25, r.Opacity(), 1e-9)
}

func TestRainThunderIsLightningOnly(t *testing.T) {
	ctx := testContext(RainThunder)
	strikes := 0
	ctx.OnStrike = func(s Strike) {
		strikes++
		assert.Greater(t, s.Intensity, 0.0)
	}

	e, ok := New(ctx).(*RainEffect)
	require.True(t, ok)
	assert.Zero(t, e.ParticleCount())
	assert.True(t, e.LightningEnabled())

	for i := 0; i < 20*60; i++ {
		e.Update(1.0/60, float64(i)/60)
	}
	assert.Positive(t, strikes)
}

func TestStormHasLightningAndParticles(t *testing.T) {
	e := New(testContext(RainStorm)).(*RainEffect)
	assert.True(t, e.LightningEnabled())
	assert.Equal(t, rainPresets[RainStorm].Count, e.ParticleCount())

	plain := New(testContext(Rain)).(*RainEffect)
	assert.False(t, plain.LightningEnabled())
}

func TestMobileReducesCounts(t *testing.T) {
	ctx := testContext(RainHeavy)
	desktop := New(ctx).(*RainEffect).ParticleCount()
	ctx.Mobile = true
	mobile := New(ctx).(*RainEffect).ParticleCount()
	assert.Less(t, mobile, desktop)

	snowCtx := testContext(SnowBlizzard)
	snowCtx.Mobile = true
	assert.Equal(t, snowPresets[SnowBlizzard].MobileCount, New(snowCtx).(*SnowEffect).ParticleCount())
}

func TestRainDropsLoopInsideView(t *testing.T) {
	ctx := testContext(RainHeavy)
	e := New(ctx).(*RainEffect)
	for _, elapsed := range []float64{0, 0.5, 3.7, 120, 9999.25} {
		e.Update(0.016, elapsed)
		for i := 0; i < e.ParticleCount(); i++ {
			x, y := e.streaks.X1[i], e.streaks.Y1[i]
			assert.GreaterOrEqual(t, x, 0.0)
			assert.Less(t, x, ctx.ViewWidth)
			assert.GreaterOrEqual(t, y, 0.0)
			assert.Less(t, y, ctx.ViewHeight+e.preset.Length)
		}
	}
}

func TestPositionsAreTimeDriven(t *testing.T) {
	ctx := testContext(Snow)
	a := New(ctx).(*SnowEffect)
	b := New(ctx).(*SnowEffect)

	// Different step histories, same elapsed time
	for i := 1; i <= 10; i++ {
		a.Update(0.1, float64(i)*0.1)
	}
	b.Update(1, 1)
	b.Update(0.016, 1.0)

	assert.InDeltaSlice(t, a.points.X, b.points.X, 1e-9)
	assert.InDeltaSlice(t, a.points.Y, b.points.Y, 1e-9)
}

func TestResizeRescalesWithoutReseed(t *testing.T) {
	ctx := testContext(Rain)
	e := New(ctx).(*RainEffect)
	before := append([]float64(nil), e.drops.x...)

	ctx.ViewportWidth, ctx.ViewportHeight = 800, 600
	ctx.ViewWidth = render.LogicalWidth(800, 600)
	e.OnResize(ctx)

	assert.Equal(t, before, e.drops.x)
	assert.InDelta(t, 133.33, e.viewW, 0.01)
}

func TestEffectsDrawSomething(t *testing.T) {
	for _, tag := range []Tag{Rain, Snow, FogDense, Clouds, SunBeams, Hail, Wind, AcidRain, MatrixRain} {
		t.Run(string(tag), func(t *testing.T) {
			ctx := testContext(tag)
			e := New(ctx)
			e.Update(0.016, 2)
			buf := drawFrame(e, ctx)
			assert.Positive(t, buf.TouchedCount())
		})
	}
}

func TestOpacityZeroDrawsNothing(t *testing.T) {
	ctx := testContext(Rain)
	e := New(ctx)
	e.SetOpacity(0)
	e.Update(0.016, 2)
	assert.Zero(t, drawFrame(e, ctx).TouchedCount())
}

func TestFogHasDepthLayers(t *testing.T) {
	for _, tag := range []Tag{FogLight, Fog, FogDense} {
		f := New(testContext(tag)).(*FogEffect)
		assert.GreaterOrEqual(t, f.LayerCount(), 2)
	}
}

func TestDigitalRainColor(t *testing.T) {
	ctx := testContext(MatrixRain)
	ctx.Extras.MatrixRainColor = "#f0f"
	custom := New(ctx).(*DigitalRainEffect)

	ctx.Extras.MatrixRainColor = "not-a-color"
	fallback := New(ctx).(*DigitalRainEffect)

	assert.NotEqual(t, custom.HeadColor(), fallback.HeadColor())
	assert.Equal(t, 160, fallback.ColumnCount())

	ctx.Mobile = true
	assert.Less(t, New(ctx).(*DigitalRainEffect).ColumnCount(), 160)
}

func TestDigitalRainSwapsGlyphs(t *testing.T) {
	ctx := testContext(MatrixRain)
	d := New(ctx).(*DigitalRainEffect)
	for i := 0; i < 120; i++ {
		d.Update(1.0/60, float64(i)/60)
	}
	assert.Positive(t, d.swaps)

	// Head glyph is the brightest in its column
	var bold int
	for _, g := range d.glyphs.Items {
		if g.Attrs == render.AttrBold {
			bold++
			assert.Equal(t, 1.0, g.Alpha)
		}
	}
	assert.Positive(t, bold)
}

func TestLightningFiresAndFades(t *testing.T) {
	ctx := testContext(Lightning)
	var got []Strike
	ctx.OnStrike = func(s Strike) { got = append(got, s) }
	l := New(ctx).(*LightningEffect)

	for i := 0; i < 10*60; i++ {
		l.Update(1.0/60, float64(i)/60)
	}
	require.NotEmpty(t, got)
	assert.Equal(t, len(got), l.StrikeCount())

	// Long quiet stretch after the last strike fully fades the flash
	l.strikes.nextAt = 1e9
	l.strikes.restrikeAt = -1
	for i := 0; i < 120; i++ {
		l.Update(1.0/60, 11+float64(i)/60)
	}
	assert.Zero(t, l.strikes.flash.Opacity)
	assert.Zero(t, l.strikes.bolt.Opacity)
}

func TestFractalPathEndpoints(t *testing.T) {
	rng := testContext(Lightning).rng(1)
	p := fractalPath(point{10, 0}, point{30, 80}, rng)
	require.GreaterOrEqual(t, len(p), 7)
	assert.Equal(t, point{10, 0}, p[0])
	assert.Equal(t, point{30, 80}, p[len(p)-1])
}

func TestNoiseTextureIsTileable(t *testing.T) {
	tex := newNoiseTexture(32, 16, 3, 7)
	for y := 0.0; y < 16; y += 1.5 {
		assert.InDelta(t, tex.Sample(0, y), tex.Sample(32, y), 1e-9)
	}
	for _, v := range tex.data {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestNoiseSampleNearNegativeZero(t *testing.T) {
	tex := newNoiseTexture(128, 8, 6, 1)
	assert.NotPanics(t, func() { tex.Sample(0, -1e-17) })
	assert.NotPanics(t, func() { tex.Sample(-1e-17, -1e-300) })
}

func TestCloudLayersShadeWithoutStacking(t *testing.T) {
	ctx := testContext(Clouds)
	c := New(ctx).(*CloudsEffect)
	c.Update(0.016, 1)

	far := c.layers[len(c.layers)-1]
	assert.Equal(t, render.BlendAlpha, far.plane.Blend)
	for _, l := range c.layers[:len(c.layers)-1] {
		assert.Equal(t, render.BlendSoftLight, l.plane.Blend)
	}

	full := drawFrame(c, ctx)
	for _, l := range c.layers[:len(c.layers)-1] {
		l.plane.Visible = false
	}
	farOnly := drawFrame(c, ctx)

	covered := 0
	for y := 0; y < ctx.Rows; y++ {
		for x := 0; x < ctx.Cols; x++ {
			base, ok := farOnly.At(x, y)
			if !ok || base.BgAlpha <= 0 {
				continue
			}
			covered++
			got, _ := full.At(x, y)
			assert.InDelta(t, base.BgAlpha, got.BgAlpha, 1e-9, "cell %d,%d", x, y)
		}
	}
	assert.Positive(t, covered)
}

func TestLightningGlowUsesMaxBackground(t *testing.T) {
	l := New(testContext(Lightning)).(*LightningEffect)
	assert.Equal(t, render.BlendMaxBg, l.strikes.glow.Blend)
	assert.Equal(t, render.BlendScreen, l.strikes.flash.Blend)
}

func TestSunGlareFallsOffFromSource(t *testing.T) {
	s := New(testContext(SunBeams)).(*SunBeamsEffect)
	s.Update(0.016, 1)
	assert.Equal(t, render.BlendOverlay, s.glare.Blend)
	assert.Positive(t, s.glare.Opacity)

	_, near := s.shadeGlare(0, 0)
	_, far := s.shadeGlare(1, 1)
	assert.Positive(t, near)
	assert.Zero(t, far)
}
