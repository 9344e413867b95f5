package render

// Buffer is a transparent overlay compositor backed by a Cell array with touch tracking
// Cells start fully transparent; surfaces composite touched cells over host content
type Buffer struct {
	cells   []Cell
	touched []bool
	width   int
	height  int
}

// NewBuffer creates a buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	return &Buffer{
		cells:   make([]Cell, size),
		touched: make([]bool, size),
		width:   width,
		height:  height,
	}
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
		b.touched = make([]bool, size)
	} else {
		b.cells = b.cells[:size]
		b.touched = b.touched[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to transparent using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{}
	b.touched[0] = false
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
	for filled := 1; filled < len(b.touched); filled *= 2 {
		copy(b.touched[filled:], b.touched[:filled])
	}
}

// Width returns the buffer width in cells
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in cells
func (b *Buffer) Height() int { return b.height }

// inBounds returns true if in buffer bounds
func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// At returns the cell at (x, y) and whether any draw touched it this frame
func (b *Buffer) At(x, y int) (Cell, bool) {
	if !b.inBounds(x, y) {
		return Cell{}, false
	}
	idx := y*b.width + x
	return b.cells[idx], b.touched[idx]
}

// TouchedCount returns the number of cells written since the last Clear
func (b *Buffer) TouchedCount() int {
	n := 0
	for _, t := range b.touched {
		if t {
			n++
		}
	}
	return n
}

// ===== COMPOSITOR API =====

// Set composites a cell with specified blend mode
// mainRune 0 keeps the existing rune; fg/bg are applied per the mode flags
func (b *Buffer) Set(x, y int, mainRune rune, fg, bg RGB, mode BlendMode, alpha float64, attrs Attr) {
	if !b.inBounds(x, y) || alpha <= 0 {
		return
	}
	idx := y*b.width + x
	dst := &b.cells[idx]
	op := mode.op()

	if mode.affectsBg() {
		dst.Bg, dst.BgAlpha = composite(op, dst.Bg, dst.BgAlpha, bg, alpha)
	}

	if mode.affectsFg() {
		if mainRune != 0 && mainRune != dst.Rune {
			// A new glyph only displaces a fainter one
			if alpha >= dst.FgAlpha || op == opReplace {
				dst.Rune = mainRune
				dst.Attrs = attrs
				dst.Fg, dst.FgAlpha = fg, min(alpha, 1)
			}
		} else if dst.Rune != 0 {
			dst.Fg, dst.FgAlpha = composite(op, dst.Fg, dst.FgAlpha, fg, alpha)
			if mainRune != 0 {
				dst.Attrs = attrs
			}
		}
	}

	b.touched[idx] = true
}

// SetGlyph places a glyph with coverage alpha, keeping the brighter of two overlapping glyphs
// Unwrapped for performance: the hot path for particle rendering
func (b *Buffer) SetGlyph(x, y int, r rune, fg RGB, alpha float64) {
	if !b.inBounds(x, y) || alpha <= 0 || r == 0 {
		return
	}
	idx := y*b.width + x
	dst := &b.cells[idx]
	if dst.Rune != 0 && dst.FgAlpha > alpha {
		return
	}
	dst.Rune = r
	dst.Fg = fg
	dst.FgAlpha = min(alpha, 1)
	dst.Attrs = AttrNone
	b.touched[idx] = true
}

// Tint alpha-composites a background color, preserving rune and foreground
// Unwrapped for performance: area effects (fog, clouds, beams) call this per cell
func (b *Buffer) Tint(x, y int, bg RGB, alpha float64) {
	if !b.inBounds(x, y) || alpha <= 0 {
		return
	}
	idx := y*b.width + x
	dst := &b.cells[idx]
	dst.Bg, dst.BgAlpha = composite(opAlpha, dst.Bg, dst.BgAlpha, bg, alpha)
	b.touched[idx] = true
}

// Light screen-blends a background color, used for flashes that must never darken
func (b *Buffer) Light(x, y int, bg RGB, alpha float64) {
	if !b.inBounds(x, y) || alpha <= 0 {
		return
	}
	idx := y*b.width + x
	dst := &b.cells[idx]
	dst.Bg, dst.BgAlpha = composite(opScreen, dst.Bg, dst.BgAlpha, bg, alpha)
	if dst.Rune != 0 {
		dst.Fg = Screen(dst.Fg, bg, alpha)
	}
	b.touched[idx] = true
}

// Cells exposes the row-major backing array for surfaces; callers must not retain it
func (b *Buffer) Cells() []Cell {
	return b.cells
}

// CompositeOver returns what a viewer sees when cell c lies over a host cell
// hostRune 0 means the host cell has no glyph
func CompositeOver(c Cell, hostRune rune, hostFg, hostBg RGB) (rune, RGB, RGB) {
	bg := Blend(hostBg, c.Bg, c.BgAlpha)
	if c.Rune != 0 && c.FgAlpha > 0 {
		// Glyph coverage fades the glyph into whatever background results
		return c.Rune, Blend(bg, c.Fg, c.FgAlpha), bg
	}
	if hostRune == 0 {
		return 0, hostFg, bg
	}
	// Host text is obscured by the same coverage as its background
	return hostRune, Blend(hostFg, c.Bg, c.BgAlpha), bg
}
