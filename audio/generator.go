package audio

import (
	"github.com/gopxl/beep"

	"github.com/lixenwraith/weatherfx/parameter"
)

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// renderChunk is the streaming block size used when baking a streamer
const renderChunk = 512

// renderStreamer drains s into a mono buffer (left channel)
func renderStreamer(s beep.Streamer) floatBuffer {
	var out floatBuffer
	block := make([][2]float64, renderChunk)
	for {
		n, ok := s.Stream(block)
		for i := 0; i < n; i++ {
			out = append(out, block[i][0])
		}
		if !ok {
			return out
		}
	}
}

// generateSound bakes a sound at unity gain; per-play volume is applied by the mixer
func generateSound(st SoundType) floatBuffer {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	switch st {
	case SoundThunderNear:
		return renderStreamer(CreateThunderNear(rate))
	case SoundThunderFar:
		return renderStreamer(CreateThunderFar(rate))
	default:
		return nil
	}
}
