package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/weatherfx/render"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		name string
		in   render.RGB
		want uint8
	}{
		{"black", render.RGB{}, 16},
		{"white", render.RGB{R: 255, G: 255, B: 255}, 231},
		{"red", render.RGB{R: 255}, 196},
		{"mid gray prefers ramp", render.RGB{R: 128, G: 128, B: 128}, 244},
		{"cube blue", render.RGB{B: 255}, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RGBTo256(tt.in))
		})
	}
}

func TestColorConversion(t *testing.T) {
	c := render.RGB{R: 10, G: 20, B: 30}
	assert.Equal(t, tcell.NewRGBColor(10, 20, 30), ToTcell(c, ColorModeTrueColor))
	assert.Equal(t, tcell.PaletteColor(196), ToTcell(render.RGB{R: 255}, ColorMode256))

	assert.Equal(t, c, FromTcell(tcell.NewRGBColor(10, 20, 30), DefaultBg))
	assert.Equal(t, DefaultBg, FromTcell(tcell.ColorDefault, DefaultBg))
}

func TestDetectColorMode(t *testing.T) {
	for _, key := range []string{"KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID", "ALACRITTY_WINDOW_ID", "ALACRITTY_LOG", "WEZTERM_PANE"} {
		t.Setenv(key, "")
	}
	t.Setenv("COLORTERM", "")
	t.Setenv("TERM", "xterm-256color")
	assert.Equal(t, ColorMode256, DetectColorMode())

	t.Setenv("COLORTERM", "truecolor")
	assert.Equal(t, ColorModeTrueColor, DetectColorMode())
}

func TestOverlayCompositesOverHostAndRestores(t *testing.T) {
	screen := newSimScreen(t, 20, 10)
	hostStyle := tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 200, 200)).Background(tcell.NewRGBColor(0, 0, 0))
	screen.SetContent(2, 1, 'A', nil, hostStyle)

	o := NewOverlay(screen, 0, 0, ColorModeTrueColor)
	o.Resize(20*8, 10*16, 1)
	cols, rows := o.Size()
	require.Equal(t, 20, cols)
	require.Equal(t, 10, rows)
	o.Capture()

	buf := render.NewBuffer(cols, rows)
	buf.SetGlyph(5, 5, '|', render.RGB{R: 255, G: 255, B: 255}, 1)
	buf.Tint(2, 1, render.RGB{R: 100, G: 100, B: 100}, 0.5)
	require.NoError(t, o.Present(buf))

	r, _, style, _ := screen.GetContent(5, 5)
	assert.Equal(t, '|', r)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), fg)

	r, _, style, _ = screen.GetContent(2, 1)
	assert.Equal(t, 'A', r, "tint keeps the host glyph")
	_, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(50, 50, 50), bg)

	buf.Clear()
	require.NoError(t, o.Present(buf))
	r, _, _, _ = screen.GetContent(5, 5)
	assert.Equal(t, ' ', r)
	r, _, style, _ = screen.GetContent(2, 1)
	assert.Equal(t, 'A', r)
	assert.Equal(t, hostStyle, style)
}

func TestOverlayRelease(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	screen.SetContent(1, 1, 'x', nil, tcell.StyleDefault)

	o := NewOverlay(screen, 0, 0, ColorMode256)
	o.Resize(80, 80, 1)
	buf := render.NewBuffer(o.Size())
	buf.SetGlyph(1, 1, '*', render.RGB{R: 255}, 1)
	require.NoError(t, o.Present(buf))
	r, _, _, _ := screen.GetContent(1, 1)
	require.Equal(t, '*', r)

	o.Release()
	o.Release()
	assert.True(t, o.Released())
	r, _, _, _ = screen.GetContent(1, 1)
	assert.Equal(t, 'x', r)
	assert.ErrorIs(t, o.Present(buf), ErrReleased)
}

func TestOverlayHostRecaptures(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	o := NewOverlay(screen, 0, 0, ColorModeTrueColor)
	o.Resize(80, 80, 1)
	buf := render.NewBuffer(o.Size())
	require.NoError(t, o.Present(buf))

	o.Host(func() { screen.SetContent(3, 2, 'H', nil, tcell.StyleDefault) })
	buf.Clear()
	require.NoError(t, o.Present(buf))
	r, _, _, _ := screen.GetContent(3, 2)
	assert.Equal(t, 'H', r)
}

func TestContainerLifecycle(t *testing.T) {
	screen := newSimScreen(t, 40, 12)
	c := NewContainer(screen, ContainerOptions{X: 2, Y: 1, Cols: 30, Mobile: true, ReducedMotion: true})

	w, h := c.Size()
	assert.Equal(t, 30*8, w)
	assert.Equal(t, 11*16, h, "zero rows follow the screen")
	assert.Equal(t, 1.0, c.PixelRatio())
	assert.True(t, c.Mobile())
	assert.True(t, c.PrefersReducedMotion())

	canvas, err := c.NewCanvas()
	require.NoError(t, err)
	require.NoError(t, c.Attach(canvas))
	require.NotNil(t, c.Overlay())
	assert.ErrorIs(t, c.Attach(render.NewCanvas(nil)), ErrUnknownCanvas)

	drawn := false
	c.Redraw(func() { drawn = true })
	assert.True(t, drawn)

	o := c.Overlay()
	c.Detach(canvas)
	assert.Nil(t, c.Overlay())
	assert.True(t, o.Released())

	drawn = false
	c.Redraw(func() { drawn = true })
	assert.True(t, drawn, "redraw without overlay still draws")
}

func TestContainerCanvasTransfer(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	c := NewContainer(screen, ContainerOptions{})
	canvas, err := c.NewCanvas()
	require.NoError(t, err)

	s, err := canvas.TransferControl()
	require.NoError(t, err)
	assert.IsType(t, &Overlay{}, s)

	_, err = canvas.Surface()
	assert.ErrorIs(t, err, render.ErrTransferred)
}
