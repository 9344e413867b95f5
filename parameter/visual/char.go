package visual

// Particle glyphs
const (
	GlyphHail      = '•'
	GlyphHailSmall = '∘'
	GlyphSplash    = '˙'
	GlyphDust      = '·'
)

// SnowGlyphs by flake size, small to large
var SnowGlyphs = []rune{'·', '∙', '•', '*', '❄'}

// MatrixGlyphs is the digital rain alphabet: half-width katakana, digits, symbols
var MatrixGlyphs = []rune(
	"ｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜﾝ" +
		"0123456789" +
		":=*+-<>|",
)
