package audio

import (
	"errors"

	"github.com/lixenwraith/weatherfx/parameter"
)

// SoundType represents different sound effects
type SoundType int

const (
	SoundThunderNear SoundType = iota // Crack and heavy rumble
	SoundThunderFar                   // Delayed low roll
	soundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundThunderNear:
		return "thunder-near"
	case SoundThunderFar:
		return "thunder-far"
	}
	return "unknown"
}

// BackendType identifies the audio backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
	BackendOSS
)

// BackendConfig describes a CLI audio backend
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// AudioConfig holds playback settings
type AudioConfig struct {
	Enabled       bool
	MasterVolume  float64 // 0.0-1.0
	EffectVolumes map[SoundType]float64
	// Backend forces a named backend (pacat, pw-cat, aplay, sox, ffplay); empty auto-detects
	Backend string
}

// DefaultAudioConfig returns enabled playback at default levels
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: parameter.AudioMasterVolume,
		EffectVolumes: map[SoundType]float64{
			SoundThunderNear: parameter.ThunderNearVolume,
			SoundThunderFar:  parameter.ThunderFarVolume,
		},
	}
}

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
	ErrRunning        = errors.New("audio engine already running")
)
