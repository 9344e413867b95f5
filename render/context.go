package render

import "math"

// ViewHeight is the fixed logical height; logical width follows the aspect ratio
const ViewHeight = 100.0

// View maps the resolution-independent logical space onto a cell grid
// Passed by value, recomputed on resize
type View struct {
	// Logical dimensions
	Width  float64
	Height float64

	// Viewport in device-independent pixels
	ViewportWidth  int
	ViewportHeight int
	PixelRatio     float64

	// Cell grid of the render target
	Cols int
	Rows int
}

// NewView derives the logical view for a viewport and a target grid
func NewView(viewportWidth, viewportHeight int, pixelRatio float64, cols, rows int) View {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return View{
		Width:          LogicalWidth(viewportWidth, viewportHeight),
		Height:         ViewHeight,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		PixelRatio:     pixelRatio,
		Cols:           cols,
		Rows:           rows,
	}
}

// LogicalWidth returns ViewHeight * (width / height); degenerate viewports fall back to square
func LogicalWidth(viewportWidth, viewportHeight int) float64 {
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return ViewHeight
	}
	return ViewHeight * float64(viewportWidth) / float64(viewportHeight)
}

// ToCell maps logical coordinates (origin top-left, y down) to a cell
func (v View) ToCell(x, y float64) (int, int) {
	if v.Width <= 0 || v.Height <= 0 {
		return -1, -1
	}
	cx := int(math.Floor(x / v.Width * float64(v.Cols)))
	cy := int(math.Floor(y / v.Height * float64(v.Rows)))
	return cx, cy
}

// CellSize returns the logical extent of one cell
func (v View) CellSize() (float64, float64) {
	if v.Cols <= 0 || v.Rows <= 0 {
		return 0, 0
	}
	return v.Width / float64(v.Cols), v.Height / float64(v.Rows)
}

// CellCenter returns the logical center of cell (cx, cy)
func (v View) CellCenter(cx, cy int) (float64, float64) {
	w, h := v.CellSize()
	return (float64(cx) + 0.5) * w, (float64(cy) + 0.5) * h
}

// FromPhysical converts device pixels to logical coordinates
func (v View) FromPhysical(px, py float64) (float64, float64) {
	pw := float64(v.ViewportWidth) * v.PixelRatio
	ph := float64(v.ViewportHeight) * v.PixelRatio
	if pw <= 0 || ph <= 0 {
		return 0, 0
	}
	return px / pw * v.Width, py / ph * v.Height
}

// PhysicalScale returns logical units per device pixel
func (v View) PhysicalScale() float64 {
	ph := float64(v.ViewportHeight) * v.PixelRatio
	if ph <= 0 {
		return 0
	}
	return v.Height / ph
}
