// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger provides structured logging for lmchat.
//
// The terminal belongs to the TUI, so log output goes to a file (or
// nowhere) as JSON lines.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level string // debug, info, warn, error
	Path  string // log file; empty disables logging
}

// Logger wraps zerolog with lmchat-specific helpers.
type Logger struct {
	zlog   zerolog.Logger
	closer io.Closer
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New opens the configured log file and returns a logger writing to it.
func New(cfg Config) (*Logger, error) {
	if cfg.Path == "" {
		return Nop(), nil
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWithWriter(f, cfg.Level)
	l.closer = f
	return l, nil
}

// NewWithWriter returns a logger writing JSON lines to w.
func NewWithWriter(w io.Writer, level string) *Logger {
	zlog := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", "lmchat").
		Logger()
	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Zerolog returns the underlying zerolog logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Component returns a child logger tagged with a component name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// LogStartup records the effective settings at launch.
func (l *Logger) LogStartup(baseURL, model, storePath string) {
	l.zlog.Info().
		Str("event", "startup").
		Str("base_url", baseURL).
		Str("model", model).
		Str("store", storePath).
		Msg("lmchat starting")
}

// LogShutdown records a clean exit.
func (l *Logger) LogShutdown() {
	l.zlog.Info().
		Str("event", "shutdown").
		Msg("lmchat shutting down")
}
