package effect

import (
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// CloudsEffect drifts thresholded noise layers across the top of the view
type CloudsEffect struct {
	base
	viewW, viewH float64
	layers       []*noiseLayer
}

// NewClouds builds the cloud layer effect
func NewClouds(ctx BuildContext) *CloudsEffect {
	c := &CloudsEffect{base: newBase("clouds", ctx)}
	c.viewW, c.viewH = ctx.dims()

	rng := ctx.rng(streamNoise)
	for i := 0; i < parameter.CloudLayers; i++ {
		depth := float64(i) / float64(parameter.CloudLayers-1)
		layer := &noiseLayer{
			tex:    newNoiseTexture(fogTextureWidth, fogTextureHeight/2, fogTextureFreq, int64(rng.Next())),
			depth:  depth,
			scale:  parameter.CloudScale * fogTextureWidth / fogTextureFreq * (1 - 0.3*depth),
			driftX: parameter.CloudDrift * (1 - 0.5*depth),
		}
		// The farthest layer lays down coverage; nearer ones soft-light it so overlaps shade rather than stack
		mode := render.BlendSoftLight
		if i == parameter.CloudLayers-1 {
			mode = render.BlendAlpha
		}
		layer.plane = scene.NewPlane(scene.NewMaterial(visual.RgbCloud, mode), c.shader(layer))
		sub := scene.NewGroup("cloud-layer")
		sub.Depth = depth
		sub.Add(layer.plane)
		c.group.Add(sub)
		c.layers = append(c.layers, layer)
	}
	c.layout()
	return c
}

func (c *CloudsEffect) layout() {
	for _, l := range c.layers {
		// Far layers sit higher
		h := c.viewH * parameter.CloudBandFraction * (1 - 0.3*l.depth)
		l.plane.SetRect(0, 0, c.viewW, h)
	}
}

func (c *CloudsEffect) shader(l *noiseLayer) scene.Shader {
	return func(u, v float64) (render.RGB, float64) {
		n := l.sample(u, v, c.viewW, c.viewH*parameter.CloudBandFraction)
		cover := parameter.CloudCoverage + 0.1*l.depth
		a := vmath.SmoothStep(cover, cover+0.25, n)
		// Thin out toward the lower edge of the band
		a *= 1 - vmath.SmoothStep(0.55, 1, v)
		// Dense cores read darker, edges catch light
		color := render.Lerp(visual.RgbCloudLit, visual.RgbCloud, vmath.SmoothStep(cover, 1, n))
		return color, a
	}
}

// Update drifts each layer
func (c *CloudsEffect) Update(_, elapsed float64) {
	if c.disposed {
		return
	}
	for _, l := range c.layers {
		l.advance(elapsed)
		l.plane.Opacity = parameter.CloudOpacity * c.opacity * (1 - 0.3*l.depth)
	}
}

// OnResize re-lays the bands for the new aspect
func (c *CloudsEffect) OnResize(ctx BuildContext) {
	if c.disposed {
		return
	}
	c.viewW, c.viewH = ctx.dims()
	c.layout()
}

// Dispose releases all layers
func (c *CloudsEffect) Dispose() {
	c.release()
}
