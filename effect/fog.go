package effect

import (
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// Baked fog texture, in texels
const (
	fogTextureWidth  = 128
	fogTextureHeight = 64
	fogTextureFreq   = 5.0
)

// noiseLayer is one independently drifting noise plane
type noiseLayer struct {
	plane   *scene.Plane
	tex     *noiseTexture
	depth   float64 // 0 near, 1 far
	scale   float64 // texels per logical unit
	driftX  float64 // logical units per second
	driftY  float64
	offsetX float64
	offsetY float64
}

// sample returns noise at normalized plane coordinates for a view of width w and height h
func (l *noiseLayer) sample(u, v, w, h float64) float64 {
	return l.tex.Sample((u*w+l.offsetX)*l.scale, (v*h+l.offsetY)*l.scale)
}

func (l *noiseLayer) advance(elapsed float64) {
	l.offsetX = l.driftX * elapsed
	l.offsetY = l.driftY * elapsed
}

// FogEffect composites depth-layered noise fields, denser toward the ground
type FogEffect struct {
	base
	preset parameter.FogPreset

	viewW, viewH float64
	layers       []*noiseLayer
}

// NewFog builds a fog variant from a preset
func NewFog(ctx BuildContext, preset parameter.FogPreset) *FogEffect {
	f := &FogEffect{
		base:   newBase("fog", ctx),
		preset: preset,
	}
	f.viewW, f.viewH = ctx.dims()

	rng := ctx.rng(streamNoise)
	n := max(preset.Layers, 2)
	for i := 0; i < n; i++ {
		depth := float64(i) / float64(n-1)
		layer := &noiseLayer{
			tex:    newNoiseTexture(fogTextureWidth, fogTextureHeight, fogTextureFreq, int64(rng.Next())),
			depth:  depth,
			scale:  preset.Scale * fogTextureWidth / fogTextureFreq * (1 - 0.4*depth),
			driftX: preset.Drift * (1 - 0.6*depth) * sign(rng),
			driftY: preset.Drift * 0.15 * rng.Signed(),
		}
		color := render.Lerp(visual.RgbFog, visual.RgbFogFar, depth)
		layer.plane = scene.NewPlane(scene.NewMaterial(color, render.BlendAlpha), f.shader(layer, color))

		sub := scene.NewGroup("fog-layer")
		sub.Depth = depth
		sub.Add(layer.plane)
		f.group.Add(sub)
		f.layers = append(f.layers, layer)
	}
	return f
}

func sign(rng *vmath.FastRand) float64 {
	if rng.Chance(0.5) {
		return -1
	}
	return 1
}

func (f *FogEffect) shader(l *noiseLayer, color render.RGB) scene.Shader {
	return func(u, v float64) (render.RGB, float64) {
		n := l.sample(u, v, f.viewW, f.viewH)
		// Ground-hugging density with soft wisps higher up
		ground := 0.35 + 0.65*vmath.SmoothStep(0.1, 1, v)
		wisps := vmath.SmoothStep(0.3, 0.85, n)
		return color, wisps * ground
	}
}

// LayerCount returns the number of noise layers
func (f *FogEffect) LayerCount() int {
	return len(f.layers)
}

// Update drifts each layer independently
func (f *FogEffect) Update(_, elapsed float64) {
	if f.disposed {
		return
	}
	per := f.preset.Opacity * f.opacity / float64(len(f.layers)) * 1.6
	for _, l := range f.layers {
		l.advance(elapsed)
		l.plane.Opacity = vmath.Clamp01(per * (1.2 - 0.4*l.depth))
	}
}

// OnResize keeps noise anchored in logical space
func (f *FogEffect) OnResize(ctx BuildContext) {
	if f.disposed {
		return
	}
	f.viewW, f.viewH = ctx.dims()
}

// Dispose releases all layers
func (f *FogEffect) Dispose() {
	f.release()
}
