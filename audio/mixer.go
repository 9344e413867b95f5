package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/weatherfx/parameter"
)

// voice is one playing thunder instance
type voice struct {
	samples floatBuffer
	pos     int
	gain    float64
}

// mixInto adds the next len(dst) samples; false once the voice has run out
func (v *voice) mixInto(dst []float64) bool {
	n := min(len(dst), len(v.samples)-v.pos)
	for i, s := range v.samples[v.pos : v.pos+n] {
		dst[i] += s * v.gain
	}
	v.pos += n
	return v.pos < len(v.samples)
}

type playRequest struct {
	sound SoundType
	gain  float64
}

// MixerStats counts play requests by outcome
type MixerStats struct {
	Played  uint64
	Dropped uint64 // queue full or mixer stopped
	Evicted uint64 // cut short by a newer strike
}

// Mixer sums thunder voices into s16le stereo blocks, one block per tick
// At most parameter.AudioMaxVoices play at once; a new strike evicts the oldest
type Mixer struct {
	out   io.Writer
	cache *soundCache

	requests chan playRequest
	done     chan struct{}
	stopped  atomic.Bool
	errs     chan error

	// Owned by the mix goroutine
	voices []voice

	played  atomic.Uint64
	dropped atomic.Uint64
	evicted atomic.Uint64
}

// NewMixer creates a mixer writing to out; call Start to begin ticking
func NewMixer(out io.Writer, cache *soundCache) *Mixer {
	return &Mixer{
		out:      out,
		cache:    cache,
		requests: make(chan playRequest, parameter.AudioQueueSize),
		done:     make(chan struct{}),
		errs:     make(chan error, 1),
		voices:   make([]voice, 0, parameter.AudioMaxVoices),
	}
}

// Start launches the mix goroutine
func (m *Mixer) Start() {
	go m.loop()
}

// Stop halts the mix goroutine, safe to call repeatedly
func (m *Mixer) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		close(m.done)
	}
}

// Done is closed by Stop
func (m *Mixer) Done() <-chan struct{} {
	return m.done
}

// Errors delivers at most one output failure, after which the mixer has exited
func (m *Mixer) Errors() <-chan error {
	return m.errs
}

// Play queues a sound at linear gain without blocking; false when dropped
func (m *Mixer) Play(st SoundType, gain float64) bool {
	if m.stopped.Load() {
		m.dropped.Add(1)
		return false
	}
	select {
	case m.requests <- playRequest{sound: st, gain: gain}:
		return true
	default:
		m.dropped.Add(1)
		return false
	}
}

// Stats returns request counters
func (m *Mixer) Stats() MixerStats {
	return MixerStats{
		Played:  m.played.Load(),
		Dropped: m.dropped.Load(),
		Evicted: m.evicted.Load(),
	}
}

func (m *Mixer) loop() {
	ticker := time.NewTicker(parameter.AudioBufferDuration)
	defer ticker.Stop()

	block := make([]float64, parameter.AudioBufferSamples)
	frames := make([]byte, len(block)*parameter.AudioBytesPerFrame)

	for {
		select {
		case <-m.done:
			return

		case req := <-m.requests:
			m.admit(req)
			// A double strike arrives as a burst; take it in one wakeup
			m.admitQueued(parameter.AudioDrainBatch)

		case <-ticker.C:
			// Silent blocks keep the backend pipe from underrunning
			clear(block)
			m.voices = mixVoices(m.voices, block)
			encodeFrames(block, frames)

			if _, err := m.out.Write(frames); err != nil {
				select {
				case m.errs <- fmt.Errorf("%w: %v", ErrPipeClosed, err):
				default:
				}
				return
			}
		}
	}
}

func (m *Mixer) admitQueued(n int) {
	for range n {
		select {
		case req := <-m.requests:
			m.admit(req)
		default:
			return
		}
	}
}

// admit starts a cached sound, evicting the oldest voice when full
func (m *Mixer) admit(req playRequest) {
	samples := m.cache.get(req.sound)
	if len(samples) == 0 || req.gain <= 0 {
		return
	}
	if len(m.voices) >= parameter.AudioMaxVoices {
		m.voices = append(m.voices[:0], m.voices[1:]...)
		m.evicted.Add(1)
	}
	m.voices = append(m.voices, voice{samples: samples, gain: req.gain})
	m.played.Add(1)
}

// mixVoices sums every voice into block and returns those still playing
func mixVoices(voices []voice, block []float64) []voice {
	live := voices[:0]
	for i := range voices {
		if voices[i].mixInto(block) {
			live = append(live, voices[i])
		}
	}
	return live
}

// softClip compresses peaks above the knee so stacked rumbles saturate instead of wrapping
func softClip(v float64) float64 {
	const knee = 0.8
	switch {
	case v > knee:
		v = knee + (1-knee)*(1-1/(1+(v-knee)*5))
	case v < -knee:
		v = -knee - (1-knee)*(1-1/(1+(-v-knee)*5))
	}
	return max(-1, min(1, v))
}

// encodeFrames writes mono samples as interleaved stereo int16 little endian
func encodeFrames(in []float64, out []byte) {
	for i, v := range in {
		s := uint16(int16(softClip(v) * 32767))
		binary.LittleEndian.PutUint16(out[i*4:], s)
		binary.LittleEndian.PutUint16(out[i*4+2:], s)
	}
}
