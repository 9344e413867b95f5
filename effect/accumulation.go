package effect

import (
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/parameter/visual"
	"github.com/lixenwraith/weatherfx/render"
	"github.com/lixenwraith/weatherfx/scene"
	"github.com/lixenwraith/weatherfx/vmath"
)

// Cap noise texture, sampled along the surface width only
const (
	capNoiseWidth  = 128
	capNoiseHeight = 8
	capNoiseFreq   = 6.0
)

// AccumulationStats counts per-surface layer lifecycle events
type AccumulationStats struct {
	Built    int
	Disposed int
}

// SurfaceLayer is the snow cap drawn along the top edge of one surface
type SurfaceLayer struct {
	surface  SnowSurface
	plane    *scene.Plane
	offset   float64 // noise sample offset, stable per layer
	level    float64
	disposed bool
}

// Surface returns the surface the layer currently tracks
func (l *SurfaceLayer) Surface() SnowSurface {
	return l.surface
}

// Disposed reports whether the layer was removed
func (l *SurfaceLayer) Disposed() bool {
	return l.disposed
}

// Accumulation renders ambient snow bands and per-surface caps on one shared cycle
type Accumulation struct {
	group   *scene.Group
	ambient *scene.Group
	caps    *scene.Group
	top     *scene.Plane
	bottom  *scene.Plane

	layers map[string]*SurfaceLayer
	stats  AccumulationStats
	noise  *noiseTexture
	rng    *vmath.FastRand

	view     render.View
	opacity  float64
	level    float64
	disposed bool
}

// NewAccumulation builds the ambient layer; surface layers arrive via SetSnowSurfaces
func NewAccumulation(ctx BuildContext) *Accumulation {
	a := &Accumulation{
		group:   scene.NewGroup("accumulation"),
		ambient: scene.NewGroup("accumulation-ambient"),
		caps:    scene.NewGroup("accumulation-surfaces"),
		layers:  make(map[string]*SurfaceLayer),
		noise:   newNoiseTexture(capNoiseWidth, capNoiseHeight, capNoiseFreq, int64(vmath.Seed64(ctx.Seed, streamNoise))),
		rng:     ctx.rng(streamSurfaces),
		view:    ctx.View(),
		opacity: vmath.Clamp01(ctx.Opacity),
	}

	mat := scene.NewMaterial(visual.RgbSnow, render.BlendAlpha)
	a.top = scene.NewPlane(mat, func(u, v float64) (render.RGB, float64) {
		// Dense at the edge, thinning toward the interior
		n := a.noise.Sample(u*capNoiseWidth, 0)
		return visual.RgbSnow, (1 - v) * (0.6 + 0.4*n)
	})
	a.bottom = scene.NewPlane(mat, func(u, v float64) (render.RGB, float64) {
		n := a.noise.Sample(u*capNoiseWidth, 4)
		return visual.RgbSnowShadow, v * (0.6 + 0.4*n)
	})
	a.ambient.Add(a.top, a.bottom)
	a.layoutAmbient()

	a.group.Add(a.ambient, a.caps)
	return a
}

func (a *Accumulation) layoutAmbient() {
	w, h := a.view.Width, a.view.Height
	band := parameter.AmbientBandHeight
	a.top.SetRect(0, 0, w, band)
	a.bottom.SetRect(0, h-band, w, band)
}

// Group returns the visual root
func (a *Accumulation) Group() *scene.Group {
	return a.group
}

// Stats returns layer build and dispose counts
func (a *Accumulation) Stats() AccumulationStats {
	return a.stats
}

// Layer returns the layer for a surface id, nil if absent
func (a *Accumulation) Layer(id string) *SurfaceLayer {
	return a.layers[id]
}

// LayerCount returns the number of live surface layers
func (a *Accumulation) LayerCount() int {
	return len(a.layers)
}

// Level returns the current cycle level in [0, 1]
func (a *Accumulation) Level() float64 {
	return a.level
}

// SetOpacity takes percent [0, 100]
func (a *Accumulation) SetOpacity(value float64) {
	a.opacity = vmath.Clamp(value, 0, 100) / 100
}

// SetSnowSurfaces reconciles layers against the new set:
// stale ids are disposed, known ids updated in place, new ids built
func (a *Accumulation) SetSnowSurfaces(surfaces []SnowSurface) {
	if a.disposed {
		return
	}
	next := make(map[string]SnowSurface, len(surfaces))
	for _, s := range surfaces {
		if s.ID == "" {
			continue
		}
		next[s.ID] = s
	}

	for id, layer := range a.layers {
		if _, ok := next[id]; ok {
			continue
		}
		a.caps.Remove(layer.plane)
		layer.plane.Dispose()
		layer.disposed = true
		delete(a.layers, id)
		a.stats.Disposed++
	}

	// Walk the input slice to keep draw order stable
	for _, s := range surfaces {
		if _, ok := next[s.ID]; !ok {
			continue
		}
		if layer, ok := a.layers[s.ID]; ok {
			layer.surface = s
			a.place(layer)
			continue
		}
		layer := a.buildLayer(s)
		a.layers[s.ID] = layer
		a.caps.Add(layer.plane)
		a.stats.Built++
	}
}

func (a *Accumulation) buildLayer(s SnowSurface) *SurfaceLayer {
	layer := &SurfaceLayer{surface: s, offset: a.rng.Range(0, capNoiseWidth)}
	layer.plane = scene.NewPlane(scene.NewMaterial(visual.RgbSnow, render.BlendAlpha), func(u, v float64) (render.RGB, float64) {
		return capShade(layer, a.noise, u, v)
	})
	a.place(layer)
	return layer
}

// place maps the surface's top edge to a logical rectangle sitting on it
func (a *Accumulation) place(layer *SurfaceLayer) {
	s := layer.surface
	x, y := a.view.FromPhysical(s.X, s.Y)
	scale := a.view.PhysicalScale()
	w := s.Width * scale
	h := s.Thickness * scale
	// A cap thinner than one row would never cover a cell center
	if _, ch := a.view.CellSize(); h < ch {
		h = ch
	}
	h = max(h, 0.01)
	layer.plane.SetRect(x, y-h, w, h)
}

// capShade fills from the bottom of the cap upward to a noise-modulated height
// Horizontal edges fade over the corner radius so rounded corners stay soft
func capShade(layer *SurfaceLayer, noise *noiseTexture, u, v float64) (render.RGB, float64) {
	s := layer.surface
	edge := 1.0
	if s.Width > 0 && s.CornerRadius > 0 {
		f := min(s.CornerRadius/s.Width, 0.5)
		edge = vmath.SmoothStep(0, f, u) * vmath.SmoothStep(0, f, 1-u)
	}

	n := noise.Sample(layer.offset+u*capNoiseWidth, 2)
	height := layer.level * (1 - parameter.SurfaceCapNoise*n)
	depth := 1 - v // 0 on the surface edge, 1 at the top of the cap
	if height <= 0 || depth > height {
		return visual.RgbSnow, 0
	}
	soft := 1 - vmath.SmoothStep(height-0.25, height, depth)
	color := render.Lerp(visual.RgbSnowShadow, visual.RgbSnow, depth)
	return color, edge * max(soft, 0.35)
}

// cycleLevel maps elapsed time to the accumulate/hold/fade envelope
func cycleLevel(elapsed float64) float64 {
	acc := parameter.AccumulateDuration.Seconds()
	hold := parameter.AccumulateHold.Seconds()
	fade := parameter.AccumulateFade.Seconds()
	t := vmath.Wrap(elapsed, acc+hold+fade)
	switch {
	case t < acc:
		return vmath.SmoothStep(0, acc, t)
	case t < acc+hold:
		return 1
	default:
		return 1 - vmath.SmoothStep(0, fade, t-acc-hold)
	}
}

// Update drives every layer from the shared cycle
func (a *Accumulation) Update(_, elapsed float64) {
	if a.disposed {
		return
	}
	a.level = cycleLevel(elapsed)

	ambient := parameter.AmbientBandOpacity * a.level * a.opacity
	a.top.Opacity = ambient
	a.bottom.Opacity = ambient

	capOpacity := parameter.SurfaceCapOpacity * a.opacity
	for _, layer := range a.layers {
		layer.level = a.level
		layer.plane.Opacity = capOpacity
	}
}

// OnResize re-places every layer for the new viewport
func (a *Accumulation) OnResize(ctx BuildContext) {
	if a.disposed {
		return
	}
	a.view = ctx.View()
	a.layoutAmbient()
	for _, layer := range a.layers {
		a.place(layer)
	}
}

// Dispose removes every layer; idempotent
func (a *Accumulation) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	for id, layer := range a.layers {
		layer.plane.Dispose()
		layer.disposed = true
		delete(a.layers, id)
		a.stats.Disposed++
	}
	a.group.Dispose()
}
