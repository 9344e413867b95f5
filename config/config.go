// Package config loads runtime settings for the weatherfx commands from WEATHERFX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/parameter"
	"github.com/lixenwraith/weatherfx/render"
)

// Prefix namespaces every variable
const Prefix = "WEATHERFX_"

// Worker modes
const (
	WorkerAuto = "auto"
	WorkerOff  = "off"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config holds all settings, populated from environment variables
type Config struct {
	Effect  effect.Tag
	Opacity float64
	FPS     int
	Worker  string

	RespectReducedMotion bool
	ReducedMotion        bool // simulated host preference
	SnowAccumulation     bool
	MatrixColor          string
	LowPower             bool

	Audio        bool
	AudioBackend string
	AudioVolume  float64

	ControlAddr     string
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string
	Debug     bool
}

// Load reads configuration from environment variables, applying defaults where unset
func Load() (*Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	tag, err := effect.Parse(envOrDefault("EFFECT", string(effect.Rain)))
	if err != nil {
		collect(invalid("EFFECT", err))
	}

	cfg := &Config{
		Effect:       tag,
		Worker:       strings.ToLower(envOrDefault("WORKER", WorkerAuto)),
		MatrixColor:  os.Getenv(Prefix + "MATRIX_COLOR"),
		AudioBackend: os.Getenv(Prefix + "AUDIO_BACKEND"),
		ControlAddr:  os.Getenv(Prefix + "CONTROL_ADDR"),
		LogLevel:     strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(envOrDefault("LOG_FORMAT", "text")),
	}

	cfg.Opacity, err = parseFloat("OPACITY", parameter.OpacityDefault)
	collect(err)
	cfg.AudioVolume, err = parseFloat("AUDIO_VOLUME", parameter.AudioMasterVolume)
	collect(err)
	cfg.FPS, err = parseInt("FPS", 60)
	collect(err)
	cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", 5*time.Second)
	collect(err)

	cfg.RespectReducedMotion, err = parseBool("RESPECT_REDUCED_MOTION", true)
	collect(err)
	cfg.ReducedMotion, err = parseBool("REDUCED_MOTION", false)
	collect(err)
	cfg.SnowAccumulation, err = parseBool("SNOW_ACCUMULATION", false)
	collect(err)
	cfg.LowPower, err = parseBool("LOW_POWER", false)
	collect(err)
	cfg.Audio, err = parseBool("AUDIO", false)
	collect(err)
	cfg.Debug, err = parseBool("DEBUG", false)
	collect(err)

	collect(cfg.Validate())
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations; flags applied after Load should be revalidated
func (c *Config) Validate() error {
	var errs []error
	if c.Opacity < parameter.OpacityMin || c.Opacity > parameter.OpacityMax {
		errs = append(errs, invalid("OPACITY", fmt.Errorf("%v outside [0, 100]", c.Opacity)))
	}
	if c.FPS < 1 || c.FPS > 240 {
		errs = append(errs, invalid("FPS", fmt.Errorf("%d outside [1, 240]", c.FPS)))
	}
	if c.Worker != WorkerAuto && c.Worker != WorkerOff {
		errs = append(errs, invalid("WORKER", fmt.Errorf("%q, want auto or off", c.Worker)))
	}
	if c.MatrixColor != "" {
		if _, err := render.ParseColor(c.MatrixColor); err != nil {
			errs = append(errs, invalid("MATRIX_COLOR", err))
		}
	}
	if c.AudioVolume < 0 || c.AudioVolume > 1 {
		errs = append(errs, invalid("AUDIO_VOLUME", fmt.Errorf("%v outside [0, 1]", c.AudioVolume)))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, invalid("LOG_LEVEL", fmt.Errorf("%q", c.LogLevel)))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, invalid("LOG_FORMAT", fmt.Errorf("%q", c.LogFormat)))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, invalid("SHUTDOWN_TIMEOUT", errors.New("must be positive")))
	}
	return errors.Join(errs...)
}

// FrameInterval is the frame period for FPS
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return parameter.FrameInterval
	}
	return time.Second / time.Duration(c.FPS)
}

// UseWorker reports whether the isolated renderer path is allowed
func (c *Config) UseWorker() bool {
	return c.Worker != WorkerOff
}

func invalid(key string, err error) error {
	return fmt.Errorf("%w: %s%s: %v", ErrInvalid, Prefix, key, err)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(Prefix + key); v != "" {
		return v
	}
	return def
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(Prefix + key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def, invalid(key, err)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(Prefix + key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def, invalid(key, err)
	}
	return v, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(Prefix + key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def, invalid(key, err)
	}
	return v, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(Prefix + key)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return def, invalid(key, err)
	}
	return v, nil
}
