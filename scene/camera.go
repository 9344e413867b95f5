package scene

import (
	"math"

	"github.com/lixenwraith/weatherfx/render"
)

// Camera is an orthographic projection of the logical view onto the cell grid
// Frustum is [Left, Right] x [Top, Bottom] in logical units, y grows downward
type Camera struct {
	Left, Right float64
	Top, Bottom float64

	view render.View
}

// NewCamera creates a camera framing the whole view
func NewCamera(view render.View) *Camera {
	c := &Camera{}
	c.SetView(view)
	return c
}

// SetView rebuilds the projection for a new view
func (c *Camera) SetView(view render.View) {
	c.view = view
	c.Left, c.Right = 0, view.Width
	c.Top, c.Bottom = 0, view.Height
}

// View returns the current view
func (c *Camera) View() render.View {
	return c.view
}

// Project maps logical coordinates to a cell; ok is false outside the frustum
func (c *Camera) Project(x, y float64) (cx, cy int, ok bool) {
	w := c.Right - c.Left
	h := c.Bottom - c.Top
	if w <= 0 || h <= 0 || c.view.Cols <= 0 || c.view.Rows <= 0 {
		return 0, 0, false
	}
	fx := (x - c.Left) / w * float64(c.view.Cols)
	fy := (y - c.Top) / h * float64(c.view.Rows)
	cx = int(math.Floor(fx))
	cy = int(math.Floor(fy))
	ok = cx >= 0 && cx < c.view.Cols && cy >= 0 && cy < c.view.Rows
	return cx, cy, ok
}

// Unproject returns the logical center of a cell
func (c *Camera) Unproject(cx, cy int) (float64, float64) {
	if c.view.Cols <= 0 || c.view.Rows <= 0 {
		return 0, 0
	}
	w := (c.Right - c.Left) / float64(c.view.Cols)
	h := (c.Bottom - c.Top) / float64(c.view.Rows)
	return c.Left + (float64(cx)+0.5)*w, c.Top + (float64(cy)+0.5)*h
}

// CellAspect is the logical width of a cell divided by its logical height
func (c *Camera) CellAspect() float64 {
	if c.view.Cols <= 0 || c.view.Rows <= 0 {
		return 1
	}
	w := (c.Right - c.Left) / float64(c.view.Cols)
	h := (c.Bottom - c.Top) / float64(c.view.Rows)
	if h == 0 {
		return 1
	}
	return w / h
}
