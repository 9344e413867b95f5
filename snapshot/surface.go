// Package snapshot renders overlay frames headlessly into raster images.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/render"
)

// ErrReleased is returned by Present and encoders after Release
var ErrReleased = errors.New("snapshot: surface released")

// glyphPoints sizes the monospace face to fit one cell
const glyphPoints = 13.0

// Surface is a render.Surface rasterizing cells onto a gg context
// Every cell is parameter.CellPixelWidth x parameter.CellPixelHeight pixels over a flat backdrop
type Surface struct {
	mu       sync.Mutex
	dc       *gg.Context
	font     *text.FontSource
	face     text.Face
	backdrop render.RGB
	cols     int
	rows     int
	frames   uint64
	released bool
}

// NewSurface creates a surface of cols x rows cells over backdrop
func NewSurface(cols, rows int, backdrop render.RGB) (*Surface, error) {
	cols, rows = max(cols, 1), max(rows, 1)
	src, err := text.NewFontSource(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load font: %w", err)
	}
	s := &Surface{
		dc:       gg.NewContext(cols*parameter.CellPixelWidth, rows*parameter.CellPixelHeight),
		font:     src,
		face:     src.Face(glyphPoints),
		backdrop: backdrop,
		cols:     cols,
		rows:     rows,
	}
	s.dc.SetFont(s.face)
	s.dc.ClearWithColor(toGG(backdrop))
	return s, nil
}

// Resize maps a viewport in device-independent pixels to the cell grid
func (s *Surface) Resize(width, height int, _ float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	cols := max(width/parameter.CellPixelWidth, 1)
	rows := max(height/parameter.CellPixelHeight, 1)
	if cols == s.cols && rows == s.rows {
		return
	}
	if err := s.dc.Resize(cols*parameter.CellPixelWidth, rows*parameter.CellPixelHeight); err != nil {
		return
	}
	s.cols, s.rows = cols, rows
	s.dc.ClearWithColor(toGG(s.backdrop))
}

// Size returns the cell grid
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

// Present repaints the backdrop and composites buf over it
func (s *Surface) Present(buf *render.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}

	s.dc.ClearWithColor(toGG(s.backdrop))

	cols := min(buf.Width(), s.cols)
	rows := min(buf.Height(), s.rows)
	cw, ch := float64(parameter.CellPixelWidth), float64(parameter.CellPixelHeight)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell, touched := buf.At(x, y)
			if !touched || cell.Empty() {
				continue
			}
			r, fg, bg := render.CompositeOver(cell, 0, s.backdrop, s.backdrop)
			px, py := float64(x)*cw, float64(y)*ch

			if cell.BgAlpha > 0 {
				setRGB(s.dc, bg)
				s.dc.DrawRectangle(px, py, cw, ch)
				if err := s.dc.Fill(); err != nil {
					return fmt.Errorf("snapshot: fill cell %d,%d: %w", x, y, err)
				}
			}
			if r != 0 && r != ' ' {
				setRGB(s.dc, fg)
				// Baseline sits a quarter cell above the bottom edge
				s.dc.DrawString(string(r), px, py+ch*0.75)
			}
		}
	}
	s.frames++
	return nil
}

// Release frees the font; later Present calls fail
func (s *Surface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.font.Close()
	s.dc.Close()
}

// Frames returns how many frames were presented
func (s *Surface) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Image returns the last presented frame
func (s *Surface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Image()
}

// EncodePNG writes the last presented frame as PNG
func (s *Surface) EncodePNG(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	return s.dc.EncodePNG(w)
}

// SavePNG writes the last presented frame to path
func (s *Surface) SavePNG(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	return s.dc.SavePNG(path)
}

func setRGB(dc *gg.Context, c render.RGB) {
	dc.SetRGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

func toGG(c render.RGB) gg.RGBA {
	return gg.RGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}
