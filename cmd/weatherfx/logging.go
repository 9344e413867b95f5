package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	logDir      = "logs"
	logFileName = "weatherfx.log"
	maxLogSize  = 10 * 1024 * 1024 // rotate beyond 10MB
)

// setupLogging routes log and slog output to logs/weatherfx.log when enabled
// Stdout belongs to the TUI, so disabled logging discards everything
func setupLogging(enabled bool, level, format string) (*os.File, *slog.Logger) {
	if !enabled {
		log.SetOutput(io.Discard)
		return nil, slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return nil, slog.New(slog.DiscardHandler)
	}

	path := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("weatherfx-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(path, rotated)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, slog.New(slog.DiscardHandler)
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f, newLogger(f, level, format)
}

// newLogger builds a slog logger; unknown levels fall back to info
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
