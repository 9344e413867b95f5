package scene

import (
	"github.com/lixenwraith/weatherfx/render"
)

// Glyph is one positioned character
type Glyph struct {
	X, Y  float64
	Rune  rune
	Color render.RGB
	Alpha float64
	Attrs render.Attr
}

// Glyphs draws a mutable list of individually styled characters
type Glyphs struct {
	Material
	Items []Glyph

	disposed bool
}

// NewGlyphs allocates capacity for n glyphs
func NewGlyphs(n int, mat Material) *Glyphs {
	return &Glyphs{Material: mat, Items: make([]Glyph, 0, n)}
}

// Draw composites each glyph scaled by the material opacity
func (g *Glyphs) Draw(buf *render.Buffer, cam *Camera) {
	if g.disposed || !g.active() {
		return
	}
	for i := range g.Items {
		it := &g.Items[i]
		if it.Rune == 0 {
			continue
		}
		cx, cy, ok := cam.Project(it.X, it.Y)
		if !ok {
			continue
		}
		plot(buf, cx, cy, it.Rune, it.Color, it.Alpha*g.Opacity, g.Blend, it.Attrs)
	}
}

// Dispose drops the glyph list
func (g *Glyphs) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	g.Items = nil
}

// Disposed reports whether Dispose has run
func (g *Glyphs) Disposed() bool {
	return g.disposed
}
