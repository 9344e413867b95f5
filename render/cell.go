package render

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// Equal returns true if colors match
func (c RGB) Equal(other RGB) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << 0
	AttrDim  Attr = 1 << 1
)

// Cell is one overlay cell. Alpha values are coverage over the host content:
// zero means the host cell shows through untouched
type Cell struct {
	Rune    rune
	Fg      RGB
	Bg      RGB
	Attrs   Attr
	FgAlpha float64
	BgAlpha float64
}

// Empty reports whether the cell contributes nothing to the composite
func (c Cell) Empty() bool {
	return c.BgAlpha <= 0 && (c.Rune == 0 || c.FgAlpha <= 0)
}
