package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/weatherfx/config"
	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/terminal"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestParseArgs_DefaultsFromEnvironment(t *testing.T) {
	t.Setenv("WEATHERFX_EFFECT", "fog-dense")
	t.Setenv("WEATHERFX_OPACITY", "30")

	opts, err := parseArgs(nil, loadConfig(t), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, effect.FogDense, opts.cfg.Effect)
	assert.Equal(t, 30.0, opts.cfg.Opacity)
	assert.False(t, opts.list)
}

func TestParseArgs_FlagsOverride(t *testing.T) {
	t.Setenv("WEATHERFX_EFFECT", "fog")

	opts, err := parseArgs([]string{
		"-effect", "matrix-rain", "-matrix-color", "#0af", "-opacity", "65",
		"-worker", "off", "-color", "256", "-fps", "24", "-audio", "-snow-accumulation",
	}, loadConfig(t), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, effect.MatrixRain, opts.cfg.Effect)
	assert.Equal(t, "#0af", opts.cfg.MatrixColor)
	assert.Equal(t, 65.0, opts.cfg.Opacity)
	assert.False(t, opts.cfg.UseWorker())
	assert.Equal(t, terminal.ColorMode256, opts.colorMode)
	assert.Equal(t, 24, opts.cfg.FPS)
	assert.True(t, opts.cfg.Audio)
	assert.True(t, opts.cfg.SnowAccumulation)
}

func TestParseArgs_Rejects(t *testing.T) {
	cases := [][]string{
		{"-effect", "volcano"},
		{"-opacity", "101"},
		{"-worker", "sometimes"},
		{"-color", "16"},
		{"-bogus"},
	}
	for _, args := range cases {
		_, err := parseArgs(args, loadConfig(t), io.Discard)
		assert.Error(t, err, "%v", args)
	}
}

func TestParseArgs_List(t *testing.T) {
	opts, err := parseArgs([]string{"-list"}, loadConfig(t), io.Discard)
	require.NoError(t, err)
	assert.True(t, opts.list)
}
