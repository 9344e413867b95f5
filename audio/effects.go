package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/vmath"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *vmath.FastRand
}

// NewOscillator creates a new oscillator for wave generation
// Noise is seeded from freq and duration so baked thunder is identical across runs
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      vmath.NewFastRand(vmath.Seed64(uint64(duration), math.Float64bits(freq))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Signed()
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/sustain/release envelope
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: max(total-att-rel, 0),
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = max(float64(remaining)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// lowpass is a one-pole filter with makeup gain, turning white noise into rumble
type lowpass struct {
	streamer beep.Streamer
	alpha    float64
	gain     float64
	y        [2]float64
}

// NewLowpass filters s above cutoff Hz
func NewLowpass(s beep.Streamer, cutoff float64, rate beep.SampleRate) beep.Streamer {
	alpha := 1 - math.Exp(-2*math.Pi*cutoff/float64(rate))
	return &lowpass{
		streamer: s,
		alpha:    alpha,
		// One-pole on white noise loses roughly sqrt(alpha/2) of amplitude
		gain: math.Min(1/math.Sqrt(alpha/2), 12),
	}
}

func (l *lowpass) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = l.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		for ch := 0; ch < 2; ch++ {
			l.y[ch] += l.alpha * (samples[i][ch] - l.y[ch])
			samples[i][ch] = l.y[ch] * l.gain
		}
	}
	return n, ok
}

func (l *lowpass) Err() error { return l.streamer.Err() }

// newVolume wraps s in a linear gain; zero or negative gain is silent
// math.Log2(0) is -Inf, so silence is explicit
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// rumble is filtered noise under a sub-bass tone sharing one envelope shape
func rumble(duration, attack, release time.Duration, cutoff, tone float64, rate beep.SampleRate) beep.Streamer {
	noise := NewLowpass(NewOscillator(0, duration, WaveNoise, rate), cutoff, rate)
	sub := NewOscillator(tone, duration, WaveSine, rate)
	return beep.Mix(
		newVolume(NewEnvelope(noise, duration, attack, release, rate), 0.75),
		newVolume(NewEnvelope(sub, duration, attack, release, rate), 0.3),
	)
}

// CreateThunderNear generates a crack over a heavy rumble at unity master gain
func CreateThunderNear(rate beep.SampleRate) beep.Streamer {
	crackNoise := NewLowpass(NewOscillator(0, parameter.ThunderCrackDuration, WaveNoise, rate), parameter.ThunderCrackCutoff, rate)
	crack := NewEnvelope(crackNoise, parameter.ThunderCrackDuration, parameter.ThunderCrackAttack, parameter.ThunderCrackRelease, rate)

	roll := rumble(parameter.ThunderNearDuration, parameter.ThunderNearAttack, parameter.ThunderNearRelease,
		parameter.ThunderNearCutoff, parameter.ThunderNearTone, rate)

	return beep.Mix(newVolume(crack, 0.6), roll)
}

// CreateThunderFar generates a delayed, slow-swelling roll
func CreateThunderFar(rate beep.SampleRate) beep.Streamer {
	roll := rumble(parameter.ThunderFarDuration, parameter.ThunderFarAttack, parameter.ThunderFarRelease,
		parameter.ThunderFarCutoff, parameter.ThunderFarTone, rate)
	return beep.Seq(beep.Silence(rate.N(parameter.ThunderFarDelay)), roll)
}

// GetSoundEffect returns the streamer for soundType, scaled by the configured volumes
func GetSoundEffect(soundType SoundType, cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	var s beep.Streamer
	switch soundType {
	case SoundThunderNear:
		s = CreateThunderNear(rate)
	case SoundThunderFar:
		s = CreateThunderFar(rate)
	default:
		return nil
	}
	vol := cfg.MasterVolume
	if ev, ok := cfg.EffectVolumes[soundType]; ok {
		vol *= ev
	}
	return newVolume(s, vol)
}
