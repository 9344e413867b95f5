package snapshot

import (
	"context"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/render"
)

var backdrop = render.RGB{R: 10, G: 20, B: 30}

func pixel(t *testing.T, s *Surface, x, y int) render.RGB {
	t.Helper()
	r, g, b, _ := s.Image().At(x, y).RGBA()
	return render.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

func TestSurfacePaintsTouchedCells(t *testing.T) {
	s, err := NewSurface(4, 3, backdrop)
	require.NoError(t, err)
	defer s.Release()

	buf := render.NewBuffer(4, 3)
	buf.Tint(1, 1, render.RGB{R: 255}, 1)
	require.NoError(t, s.Present(buf))

	cx := 1*parameter.CellPixelWidth + parameter.CellPixelWidth/2
	cy := 1*parameter.CellPixelHeight + parameter.CellPixelHeight/2
	assert.Equal(t, render.RGB{R: 255}, pixel(t, s, cx, cy))
	assert.Equal(t, backdrop, pixel(t, s, 2, 2))
	assert.Equal(t, uint64(1), s.Frames())
}

func TestSurfaceHalfCoverageBlendsBackdrop(t *testing.T) {
	s, err := NewSurface(2, 2, render.RGB{})
	require.NoError(t, err)
	defer s.Release()

	buf := render.NewBuffer(2, 2)
	buf.Tint(0, 0, render.RGB{R: 200, G: 200, B: 200}, 0.5)
	require.NoError(t, s.Present(buf))

	got := pixel(t, s, 4, 8)
	assert.InDelta(t, 100, int(got.R), 2)
}

func TestSurfaceFrameReplacesPrevious(t *testing.T) {
	s, err := NewSurface(2, 2, backdrop)
	require.NoError(t, err)
	defer s.Release()

	buf := render.NewBuffer(2, 2)
	buf.Tint(0, 0, render.RGB{G: 255}, 1)
	require.NoError(t, s.Present(buf))

	buf.Clear()
	require.NoError(t, s.Present(buf))
	assert.Equal(t, backdrop, pixel(t, s, 4, 8))
}

func TestSurfaceResize(t *testing.T) {
	s, err := NewSurface(2, 2, backdrop)
	require.NoError(t, err)
	defer s.Release()

	s.Resize(80, 48, 1)
	cols, rows := s.Size()
	assert.Equal(t, 10, cols)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 80, s.Image().Bounds().Dx())

	// Degenerate viewports keep a single cell
	s.Resize(0, 0, 1)
	cols, rows = s.Size()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
}

func TestSurfaceRelease(t *testing.T) {
	s, err := NewSurface(2, 2, backdrop)
	require.NoError(t, err)

	s.Release()
	s.Release()
	assert.ErrorIs(t, s.Present(render.NewBuffer(2, 2)), ErrReleased)
	assert.ErrorIs(t, s.SavePNG(t.TempDir()+"/x.png"), ErrReleased)
}

func TestStepper(t *testing.T) {
	st := NewStepper()
	var fired []time.Time
	a := st.Request(func(now time.Time) { fired = append(fired, now) })
	b := st.Request(func(now time.Time) {
		fired = append(fired, now)
		st.Request(func(time.Time) {})
	})
	assert.NotEqual(t, a, b)

	st.Cancel(a)
	now := time.Unix(5, 0)
	assert.Equal(t, 1, st.Step(now))
	assert.Equal(t, []time.Time{now}, fired)
	assert.Equal(t, 1, st.Pending())
}

func TestCaptureWritesFrames(t *testing.T) {
	dir := t.TempDir()
	paths, err := Capture(context.Background(), Options{
		Effect:   effect.Rain,
		Opacity:  100,
		Cols:     20,
		Rows:     10,
		Backdrop: backdrop,
		Frames:   6,
		Every:    3,
		Dir:      dir,
		Seed:     7,
	})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], "rain-0003.png")
	assert.Contains(t, paths[1], "rain-0006.png")

	f, err := os.Open(paths[1])
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 20*parameter.CellPixelWidth, img.Bounds().Dx())
	assert.Equal(t, 10*parameter.CellPixelHeight, img.Bounds().Dy())
}

func TestCaptureLastFrameOnly(t *testing.T) {
	paths, err := Capture(context.Background(), Options{
		Effect: effect.FogLight, Opacity: 80, Cols: 8, Rows: 4, Frames: 3, Dir: t.TempDir(), Prefix: "fog",
	})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "fog-0003.png")
}

func TestCaptureRejects(t *testing.T) {
	_, err := Capture(context.Background(), Options{Effect: effect.Rain, Frames: 0})
	assert.ErrorIs(t, err, ErrNoFrames)

	_, err = Capture(context.Background(), Options{Effect: "volcano", Frames: 1, Cols: 2, Rows: 2, Dir: t.TempDir()})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths, err := Capture(ctx, Options{Effect: effect.Rain, Frames: 2, Cols: 2, Rows: 2, Dir: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}
