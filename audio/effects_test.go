package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/weatherfx/parameter"
)

// testRate keeps sample arithmetic readable: 1 sample per millisecond
const testRate = beep.SampleRate(1000)

// ones is a constant-1 stream: a square wave that never leaves its first half period
func ones(d time.Duration) beep.Streamer {
	return NewOscillator(0, d, WaveSquare, testRate)
}

func TestOscillatorLength(t *testing.T) {
	buf := renderStreamer(NewOscillator(440, 10*time.Millisecond, WaveSine, beep.SampleRate(44100)))
	assert.Len(t, buf, 441)
}

func TestOscillatorWaveBounds(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		buf := renderStreamer(NewOscillator(50, 200*time.Millisecond, wave, testRate))
		require.Len(t, buf, 200)
		for _, v := range buf {
			assert.LessOrEqual(t, math.Abs(v), 1.0, "wave %d", wave)
		}
	}
}

func TestOscillatorDrainedStaysDrained(t *testing.T) {
	o := ones(3 * time.Millisecond)
	block := make([][2]float64, 8)

	n, ok := o.Stream(block)
	assert.Equal(t, 3, n)
	assert.True(t, ok)

	n, ok = o.Stream(block)
	assert.Zero(t, n)
	assert.False(t, ok)
}

func TestEnvelopeShape(t *testing.T) {
	buf := renderStreamer(NewEnvelope(ones(time.Second), 100*time.Millisecond, 10*time.Millisecond, 20*time.Millisecond, testRate))
	require.Len(t, buf, 100)

	assert.InDelta(t, 0.0, buf[0], 1e-9)
	assert.InDelta(t, 0.5, buf[5], 1e-9)
	assert.InDelta(t, 1.0, buf[50], 1e-9)
	assert.InDelta(t, 1.0, buf[80], 1e-9)
	assert.InDelta(t, 0.5, buf[90], 1e-9)
	assert.InDelta(t, 0.05, buf[99], 1e-9)
}

func TestEnvelopeEndsWithShorterSource(t *testing.T) {
	buf := renderStreamer(NewEnvelope(ones(30*time.Millisecond), 100*time.Millisecond, 0, 0, testRate))
	assert.Len(t, buf, 30)
}

func TestLowpassConvergesToGain(t *testing.T) {
	s := NewLowpass(ones(2*time.Second), 50, testRate)
	lp := s.(*lowpass)

	buf := renderStreamer(s)
	require.Len(t, buf, 2000)

	assert.InDelta(t, lp.alpha*lp.gain, buf[0], 1e-9)
	assert.Less(t, buf[0], buf[10])
	assert.InDelta(t, lp.gain, buf[len(buf)-1], 1e-6)
	assert.LessOrEqual(t, lp.gain, 12.0)
}

func TestLowpassAttenuatesAlternatingSignal(t *testing.T) {
	// Square at half the sample rate flips sign every sample
	s := NewLowpass(NewOscillator(500, time.Second, WaveSquare, testRate), 20, testRate)
	buf := renderStreamer(s)

	peak := 0.0
	for _, v := range buf[500:] {
		peak = math.Max(peak, math.Abs(v))
	}
	assert.Less(t, peak, 0.5)
}

func TestVolume(t *testing.T) {
	half := renderStreamer(newVolume(ones(10*time.Millisecond), 0.5))
	assert.InDelta(t, 0.5, half[0], 1e-9)

	silent := renderStreamer(newVolume(ones(10*time.Millisecond), 0))
	require.Len(t, silent, 10)
	for _, v := range silent {
		assert.Zero(t, v)
	}
}

func TestThunderNear(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	buf := renderStreamer(CreateThunderNear(rate))

	assert.InDelta(t, rate.N(parameter.ThunderNearDuration), len(buf), 512)
	assertAudible(t, buf)
}

func TestThunderFarStartsSilent(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	buf := renderStreamer(CreateThunderFar(rate))

	delay := rate.N(parameter.ThunderFarDelay)
	assert.InDelta(t, delay+rate.N(parameter.ThunderFarDuration), len(buf), 512)
	for _, v := range buf[:delay] {
		require.Zero(t, v)
	}
	assertAudible(t, buf[delay:])
}

func TestGetSoundEffect(t *testing.T) {
	cfg := DefaultAudioConfig()
	assert.NotNil(t, GetSoundEffect(SoundThunderNear, cfg))
	assert.NotNil(t, GetSoundEffect(SoundThunderFar, cfg))
	assert.Nil(t, GetSoundEffect(soundTypeCount, cfg))

	cfg.MasterVolume = 0
	for _, v := range renderStreamer(GetSoundEffect(SoundThunderNear, cfg)) {
		require.Zero(t, v)
	}
}

func TestCacheGeneratesOnce(t *testing.T) {
	c := newSoundCache()
	a := c.get(SoundThunderFar)
	b := c.get(SoundThunderFar)
	require.NotEmpty(t, a)
	assert.Same(t, &a[0], &b[0])
	assert.Nil(t, c.get(soundTypeCount))
	assert.Nil(t, c.get(-1))
}

func assertAudible(t *testing.T, buf floatBuffer) {
	t.Helper()
	peak := 0.0
	for _, v := range buf {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		peak = math.Max(peak, math.Abs(v))
	}
	assert.Greater(t, peak, 0.05)
}
