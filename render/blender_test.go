package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlendMode_Channels(t *testing.T) {
	assert.True(t, BlendAlpha.affectsBg())
	assert.True(t, BlendAlpha.affectsFg())
	assert.False(t, BlendFgOnly.affectsBg())
	assert.False(t, BlendAlpha.Background().affectsFg())

	assert.Equal(t, opMax, BlendMaxBg.op())
	assert.True(t, BlendMaxBg.affectsBg())
	assert.False(t, BlendMaxBg.affectsFg())

	bg := BlendSoftLight.Background()
	assert.Equal(t, opSoftLight, bg.op())
	assert.False(t, bg.affectsFg())
}

func TestComposite_EmptyDestination(t *testing.T) {
	for _, op := range []uint8{opReplace, opAlpha, opAdd, opMax, opSoftLight, opScreen, opOverlay} {
		c, a := composite(op, RGB{}, 0, RGB{10, 20, 30}, 0.4)
		assert.Equal(t, RGB{10, 20, 30}, c, "op %d", op)
		assert.Equal(t, 0.4, a, "op %d", op)
	}
}

func TestComposite_ZeroAlphaKeepsDestination(t *testing.T) {
	c, a := composite(opAlpha, RGB{1, 2, 3}, 0.7, RGBWhite, 0)
	assert.Equal(t, RGB{1, 2, 3}, c)
	assert.Equal(t, 0.7, a)
}

func TestComposite_PorterDuffOver(t *testing.T) {
	c, a := composite(opAlpha, RGB{0, 0, 0}, 1, RGB{200, 200, 200}, 0.5)
	assert.InDelta(t, 1.0, a, 1e-9)
	assert.Equal(t, RGB{100, 100, 100}, c)

	// Over a half-covered destination the source weight grows
	c, a = composite(opAlpha, RGB{0, 0, 0}, 0.5, RGB{200, 200, 200}, 0.5)
	assert.InDelta(t, 0.75, a, 1e-9)
	assert.InDelta(t, 133, int(c.R), 1)
}

func TestComposite_AlphaClamped(t *testing.T) {
	c, a := composite(opAlpha, RGB{0, 0, 0}, 1, RGBWhite, 4)
	assert.Equal(t, RGBWhite, c)
	assert.Equal(t, 1.0, a)
}

func TestComposite_AddAndMax(t *testing.T) {
	c, a := composite(opAdd, RGB{200, 10, 0}, 0.3, RGB{100, 10, 0}, 1)
	assert.Equal(t, RGB{255, 20, 0}, c)
	assert.Equal(t, 1.0, a)

	c, _ = composite(opMax, RGB{200, 10, 0}, 1, RGB{100, 50, 0}, 1)
	assert.Equal(t, RGB{200, 50, 0}, c)
}

func TestColorOps(t *testing.T) {
	assert.Equal(t, RGBWhite, Screen(RGBWhite, RGBBlack, 1))
	assert.Equal(t, RGB{10, 20, 30}, Screen(RGB{10, 20, 30}, RGBBlack, 1))
	assert.Equal(t, RGBBlack, Overlay(RGBBlack, RGBWhite, 1))
	assert.Equal(t, RGB{50, 50, 50}, Blend(RGBBlack, RGB{100, 100, 100}, 0.5))
	assert.Equal(t, RGB{50, 0, 0}, Lerp(RGBBlack, RGB{100, 0, 0}, 0.5))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#00ff41")
	assert.NoError(t, err)
	assert.Equal(t, RGB{0, 255, 65}, c)

	c, err = ParseColor("#f0a")
	assert.NoError(t, err)
	assert.Equal(t, RGB{255, 0, 170}, c)

	_, err = ParseColor("green")
	assert.Error(t, err)
}

func TestMixHcl_Endpoints(t *testing.T) {
	a, b := RGB{0, 255, 65}, RGB{0, 40, 10}
	assert.Equal(t, a, MixHcl(a, b, 0))
	assert.Equal(t, b, MixHcl(a, b, 1))

	mid := MixHcl(a, b, 0.5)
	assert.Less(t, mid.G, a.G)
	assert.Greater(t, mid.G, b.G)
}
