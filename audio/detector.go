package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/lixenwraith/weatherfx/parameter"
)

var (
	rateArg     = strconv.Itoa(parameter.AudioSampleRate)
	channelsArg = strconv.Itoa(parameter.AudioChannels)
	latencyMs   = strconv.Itoa(int(parameter.AudioBufferDuration.Milliseconds()))
)

// candidate is an exec-based backend probed by name
type candidate struct {
	typ  BackendType
	name string
	bin  string
	args []string
}

// candidates in priority order: pacat > pw-cat > aplay > play (sox) > ffplay
var candidates = []candidate{
	{BackendPulse, "pacat", "pacat", []string{
		"--raw", "--format=s16le", "--rate=" + rateArg, "--channels=" + channelsArg,
		"--latency-msec=" + latencyMs, "--playback",
	}},
	{BackendPipeWire, "pw-cat", "pw-cat", []string{
		"--playback", "--format=s16", "--rate=" + rateArg, "--channels=" + channelsArg,
		"--latency=" + latencyMs + "ms", "-",
	}},
	{BackendALSA, "aplay", "aplay", []string{
		"-t", "raw", "-f", "S16_LE", "-r", rateArg, "-c", channelsArg, "-q",
	}},
	{BackendSoX, "sox", "play", []string{
		"-t", "raw", "-e", "signed", "-b", strconv.Itoa(parameter.AudioBitDepth),
		"-c", channelsArg, "-r", rateArg, "-", "-d", "-q",
	}},
	{BackendFFplay, "ffplay", "ffplay", []string{
		"-nodisp", "-autoexit", "-f", "s16le", "-ac", channelsArg, "-ar", rateArg,
		"-probesize", "32", "-analyzeduration", "0", "-i", "pipe:0", "-loglevel", "quiet",
	}},
}

// DetectBackend searches for an available audio backend
// A non-empty preferred name restricts the search to that backend
func DetectBackend(preferred string) (*BackendConfig, error) {
	for _, c := range candidates {
		if preferred != "" && preferred != c.name {
			continue
		}
		if path, err := exec.LookPath(c.bin); err == nil {
			return &BackendConfig{Type: c.typ, Name: c.name, Path: path, Args: c.args}, nil
		}
	}

	// FreeBSD OSS (direct device write, no exec needed)
	if (preferred == "" || preferred == "oss") && runtime.GOOS == "freebsd" {
		if _, err := os.Stat("/dev/dsp"); err == nil {
			return &BackendConfig{Type: BackendOSS, Name: "oss", Path: "/dev/dsp"}, nil
		}
	}

	if preferred != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAudioBackend, preferred)
	}
	return nil, ErrNoAudioBackend
}
