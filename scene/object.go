// Package scene is a minimal retained scene graph drawn into a render.Buffer
// through an orthographic camera over the logical view
package scene

import (
	"github.com/lixenwraith/weatherfx/render"
)

// Object is anything the camera can draw
type Object interface {
	Draw(buf *render.Buffer, cam *Camera)
	Dispose()
}

// Material is shared draw state of a drawable
type Material struct {
	Color   render.RGB
	Opacity float64
	Blend   render.BlendMode
	Visible bool
}

// NewMaterial returns a visible material at full opacity
func NewMaterial(color render.RGB, blend render.BlendMode) Material {
	return Material{Color: color, Opacity: 1, Blend: blend, Visible: true}
}

// active reports whether anything would be drawn
func (m *Material) active() bool {
	return m.Visible && m.Opacity > 0
}

// plot writes one cell, routing plain glyph modes to the brightest-wins fast path
func plot(buf *render.Buffer, cx, cy int, r rune, color render.RGB, alpha float64, mode render.BlendMode, attrs render.Attr) {
	if alpha <= 0 {
		return
	}
	if (mode == render.BlendAlphaFg || mode == render.BlendFgOnly) && attrs == render.AttrNone {
		buf.SetGlyph(cx, cy, r, color, alpha)
		return
	}
	buf.Set(cx, cy, r, color, color, mode, alpha, attrs)
}
