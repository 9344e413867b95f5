package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines latency and mixer tick rate
	AudioBufferDuration = 50 * time.Millisecond

	// AudioBufferSamples is frames per mixer tick at 44.1kHz
	AudioBufferSamples = (AudioSampleRate * 50) / 1000 // 2205

	// AudioQueueSize bounds pending play requests; overflow is dropped
	AudioQueueSize = 32

	// AudioDrainBatch is how many extra queued requests one wakeup admits
	AudioDrainBatch = 4

	// AudioMaxVoices caps overlapping thunder; the oldest voice is cut
	AudioMaxVoices = 4
)

// Audio Mix Defaults
const (
	AudioMasterVolume = 0.6
	ThunderNearVolume = 1.0
	ThunderFarVolume  = 0.8

	// ThunderNearThreshold splits strike intensity into near cracks and distant rolls
	ThunderNearThreshold = 0.75
)

// Near thunder: sharp crack followed by a heavy rumble
const (
	ThunderCrackDuration = 140 * time.Millisecond
	ThunderCrackAttack   = 2 * time.Millisecond
	ThunderCrackRelease  = 110 * time.Millisecond
	ThunderCrackCutoff   = 2400.0 // Hz

	ThunderNearDuration = 2400 * time.Millisecond
	ThunderNearAttack   = 30 * time.Millisecond
	ThunderNearRelease  = 2000 * time.Millisecond
	ThunderNearCutoff   = 180.0 // Hz
	ThunderNearTone     = 46.0  // Hz
)

// Far thunder: delayed, slow-swelling low roll
const (
	ThunderFarDelay    = 300 * time.Millisecond
	ThunderFarDuration = 3500 * time.Millisecond
	ThunderFarAttack   = 400 * time.Millisecond
	ThunderFarRelease  = 2800 * time.Millisecond
	ThunderFarCutoff   = 90.0 // Hz
	ThunderFarTone     = 38.0 // Hz
)
