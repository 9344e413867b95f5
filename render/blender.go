package render

// BlendMode defines compositing operations using a bitmask (Flags | Op)
type BlendMode uint8

// Blend Operations (0-15)
const (
	opReplace   uint8 = 0x00
	opAlpha     uint8 = 0x01
	opAdd       uint8 = 0x02
	opMax       uint8 = 0x03
	opSoftLight uint8 = 0x04
	opScreen    uint8 = 0x05
	opOverlay   uint8 = 0x06
)

// Blend Flags
const (
	flagBg uint8 = 0x10
	flagFg uint8 = 0x20
)

// Pre-defined Blend Modes
const (
	BlendAlpha     = BlendMode(opAlpha | flagBg | flagFg)
	BlendSoftLight = BlendMode(opSoftLight | flagBg | flagFg)
	BlendScreen    = BlendMode(opScreen | flagBg | flagFg)
	BlendOverlay   = BlendMode(opOverlay | flagBg | flagFg)

	// Foreground-only modes, background coverage untouched
	BlendFgOnly  = BlendMode(opReplace | flagFg)
	BlendAlphaFg = BlendMode(opAlpha | flagFg)
	BlendAddFg   = BlendMode(opAdd | flagFg)

	// Background-only: per-channel max, a glow never darkens what it crosses
	BlendMaxBg = BlendMode(opMax | flagBg)
)

func (m BlendMode) op() uint8 { return uint8(m) & 0x0F }

func (m BlendMode) affectsBg() bool { return uint8(m)&flagBg != 0 }

func (m BlendMode) affectsFg() bool { return uint8(m)&flagFg != 0 }

// composite blends src over a partially covered destination
// Returns the new color and coverage; straight (non-premultiplied) alpha
func composite(op uint8, dst RGB, dstA float64, src RGB, alpha float64) (RGB, float64) {
	if alpha <= 0 {
		return dst, dstA
	}
	if alpha > 1 {
		alpha = 1
	}

	// Nothing underneath: every op degenerates to placing src at alpha
	if dstA <= 0 {
		return src, alpha
	}

	switch op {
	case opReplace:
		return src, alpha
	case opAlpha:
		// Porter-Duff over
		outA := alpha + dstA*(1-alpha)
		w := alpha / outA
		return Blend(dst, src, w), outA
	case opAdd:
		return Add(dst, src, alpha), max(dstA, alpha)
	case opMax:
		return Max(dst, src, alpha), max(dstA, alpha)
	case opSoftLight:
		return SoftLight(dst, src, alpha), dstA
	case opScreen:
		return Screen(dst, src, alpha), max(dstA, alpha)
	case opOverlay:
		return Overlay(dst, src, alpha), dstA
	}
	return dst, dstA
}

// Background restricts the operation to the background channel
func (m BlendMode) Background() BlendMode { return BlendMode(m.op() | flagBg) }
