package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSurface struct{ released bool }

func (s *nopSurface) Resize(int, int, float64) {}
func (s *nopSurface) Size() (int, int)         { return 0, 0 }
func (s *nopSurface) Present(*Buffer) error    { return nil }
func (s *nopSurface) Release()                 { s.released = true }

func TestCanvas_TransferOnce(t *testing.T) {
	s := &nopSurface{}
	c := NewCanvas(s)

	got, err := c.Surface()
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.False(t, c.Transferred())

	moved, err := c.TransferControl()
	require.NoError(t, err)
	assert.Same(t, s, moved)
	assert.True(t, c.Transferred())

	_, err = c.TransferControl()
	assert.ErrorIs(t, err, ErrTransferred)
	_, err = c.Surface()
	assert.ErrorIs(t, err, ErrTransferred)
}
