package audio

import (
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/weatherfx/parameter"
)

// AudioEngine plays thunder through a pipe to a system audio tool
// Without a backend it runs in silent mode and drops every request
type AudioEngine struct {
	config *AudioConfig
	cache  *soundCache
	mixer  *Mixer
	logger *slog.Logger

	backend *BackendConfig
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	ossFile *os.File // For direct OSS writes

	running    atomic.Bool
	muted      atomic.Bool
	silentMode atomic.Bool

	mu sync.RWMutex // Protects config
	wg sync.WaitGroup
}

// NewAudioEngine creates an audio engine; nil cfg uses defaults and nil logger discards
func NewAudioEngine(cfg *AudioConfig, logger *slog.Logger) *AudioEngine {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ae := &AudioEngine{
		config: cfg,
		cache:  newSoundCache(),
		logger: logger.With("component", "audio"),
	}
	ae.muted.Store(!cfg.Enabled)

	ae.cache.preload()
	return ae
}

// Start launches the audio backend and mixer
// A missing or failing backend is not an error: the engine enters silent mode
func (ae *AudioEngine) Start() error {
	if ae.running.Load() {
		return ErrRunning
	}

	ae.mu.RLock()
	preferred := ae.config.Backend
	ae.mu.RUnlock()

	backend, err := DetectBackend(preferred)
	if err != nil {
		ae.logger.Info("no audio backend, running silent", "error", err)
		ae.goSilent()
		return nil
	}
	ae.backend = backend

	var writer io.Writer
	if backend.Type == BackendOSS {
		f, err := os.OpenFile(backend.Path, os.O_WRONLY, 0)
		if err != nil {
			ae.logger.Warn("open oss device failed", "path", backend.Path, "error", err)
			ae.goSilent()
			return nil
		}
		ae.ossFile = f
		writer = f
	} else {
		cmd := exec.Command(backend.Path, backend.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			ae.logger.Warn("audio pipe failed", "backend", backend.Name, "error", err)
			ae.goSilent()
			return nil
		}

		if err := cmd.Start(); err != nil {
			stdin.Close()
			ae.logger.Warn("audio backend start failed", "backend", backend.Name, "error", err)
			ae.goSilent()
			return nil
		}

		ae.cmd = cmd
		ae.stdin = stdin
		writer = stdin

		ae.wg.Add(1)
		go ae.monitorProcess()
	}

	ae.logger.Info("audio started", "backend", backend.Name)
	ae.startMixer(writer)
	return nil
}

// StartWithWriter runs the mixer against w instead of a system backend
func (ae *AudioEngine) StartWithWriter(w io.Writer) error {
	if ae.running.Load() {
		return ErrRunning
	}
	ae.startMixer(w)
	return nil
}

func (ae *AudioEngine) startMixer(w io.Writer) {
	ae.mixer = NewMixer(w, ae.cache)
	ae.mixer.Start()

	ae.wg.Add(1)
	go ae.monitorMixer()

	ae.running.Store(true)
}

func (ae *AudioEngine) goSilent() {
	ae.silentMode.Store(true)
	ae.running.Store(true)
}

// monitorProcess watches for subprocess exit
func (ae *AudioEngine) monitorProcess() {
	defer ae.wg.Done()

	if ae.cmd == nil {
		return
	}

	err := ae.cmd.Wait()
	if err != nil && ae.running.Load() && !ae.silentMode.Load() {
		ae.logger.Warn("audio backend exited", "error", err)
		ae.silentMode.Store(true)
	}
}

// monitorMixer watches for pipe errors
func (ae *AudioEngine) monitorMixer() {
	defer ae.wg.Done()

	if ae.mixer == nil {
		return
	}

	select {
	case err := <-ae.mixer.Errors():
		ae.logger.Warn("audio output failed, running silent", "error", err)
		ae.silentMode.Store(true)
	case <-ae.mixer.Done():
	}
}

// Stop terminates the engine
func (ae *AudioEngine) Stop() {
	if !ae.running.CompareAndSwap(true, false) {
		return
	}

	if ae.mixer != nil {
		ae.mixer.Stop()
	}

	if ae.stdin != nil {
		ae.stdin.Close()
	}

	if ae.ossFile != nil {
		ae.ossFile.Close()
	}

	if ae.cmd != nil && ae.cmd.Process != nil {
		ae.cmd.Process.Kill()
	}

	ae.wg.Wait()
}

// Play queues a sound scaled by master and per-effect volume and gain
func (ae *AudioEngine) Play(st SoundType, gain float64) bool {
	if !ae.IsEnabled() || ae.mixer == nil {
		return false
	}

	ae.mu.RLock()
	vol := ae.config.MasterVolume
	if ev, ok := ae.config.EffectVolumes[st]; ok {
		vol *= ev
	}
	ae.mu.RUnlock()

	return ae.mixer.Play(st, vol*clamp01(gain))
}

// Strike plays thunder for a lightning strike of the given intensity
// Bright strikes get the near crack, dim ones a distant roll
func (ae *AudioEngine) Strike(intensity float64) bool {
	intensity = clamp01(intensity)
	if intensity >= parameter.ThunderNearThreshold {
		return ae.Play(SoundThunderNear, intensity)
	}
	// Far thunder still needs to be audible for faint strikes
	return ae.Play(SoundThunderFar, 0.5+intensity/2)
}

// ToggleMute toggles mute state, returns true if now enabled
func (ae *AudioEngine) ToggleMute() bool {
	newMute := !ae.muted.Load()
	ae.muted.Store(newMute)
	return !newMute
}

// IsMuted returns current mute state
func (ae *AudioEngine) IsMuted() bool {
	return ae.muted.Load()
}

// IsEnabled returns true if running, unmuted and not silent
func (ae *AudioEngine) IsEnabled() bool {
	return ae.running.Load() && !ae.muted.Load() && !ae.silentMode.Load()
}

// IsRunning returns true if engine is running (even in silent mode)
func (ae *AudioEngine) IsRunning() bool {
	return ae.running.Load()
}

// Backend returns the selected backend name, empty when silent
func (ae *AudioEngine) Backend() string {
	if ae.backend == nil || ae.silentMode.Load() {
		return ""
	}
	return ae.backend.Name
}

// SetVolume updates master volume (0.0-1.0)
func (ae *AudioEngine) SetVolume(vol float64) {
	ae.mu.Lock()
	ae.config.MasterVolume = clamp01(vol)
	ae.mu.Unlock()
}

// Volume returns master volume
func (ae *AudioEngine) Volume() float64 {
	ae.mu.RLock()
	defer ae.mu.RUnlock()
	return ae.config.MasterVolume
}

// Stats returns mixer counters, zero before Start or in silent mode
func (ae *AudioEngine) Stats() MixerStats {
	if ae.mixer != nil {
		return ae.mixer.Stats()
	}
	return MixerStats{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
