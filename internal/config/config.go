// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for lmchat.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the config file location, relative to the working directory.
const DefaultPath = "lmchat.toml"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lmchat configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig describes the inference server and request parameters.
type ServerConfig struct {
	// BaseURL of the OpenAI-compatible server (LM Studio listens on 1234)
	BaseURL string `toml:"base_url"`
	// Model sent with chat requests until one is picked from the server list
	Model string `toml:"model"`
	// TimeoutSecs bounds every request; local model loading can be slow
	TimeoutSecs int `toml:"timeout_secs"`
	// Temperature is the sampling temperature
	Temperature float64 `toml:"temperature"`
	// MaxTokens caps the completion; -1 means unbounded
	MaxTokens int `toml:"max_tokens"`
}

// StorageConfig locates the saved-conversation file.
type StorageConfig struct {
	Path string `toml:"path"`
	// Watch reloads the saved list when the file changes on disk
	Watch bool `toml:"watch"`
}

// UIConfig contains layout and rendering preferences.
type UIConfig struct {
	// DefaultName labels a conversation that has not been saved yet
	DefaultName  string `toml:"default_name"`
	Theme        string `toml:"theme"` // "auto", "dark" or "light"
	Markdown     bool   `toml:"markdown"`
	SidebarWidth int    `toml:"sidebar_width"`
	MinWidth     int    `toml:"min_width"`
	MinHeight    int    `toml:"min_height"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Path  string `toml:"path"` // empty disables logging
	Level string `toml:"level"`
}

// Timeout returns the request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:     "http://localhost:1234",
			Model:       "local-model",
			TimeoutSecs: 1200, // 20 minutes
			Temperature: 0.7,
			MaxTokens:   -1,
		},
		Storage: StorageConfig{
			Path:  "conversations.json",
			Watch: true,
		},
		UI: UIConfig{
			DefaultName:  "New conversation",
			Theme:        "auto",
			Markdown:     true,
			SidebarWidth: 28,
			MinWidth:     80,
			MinHeight:    24,
		},
		Log: LogConfig{
			Path:  "lmchat.log",
			Level: "info",
		},
	}
}

// fillDefaults fills in any missing values with defaults.
// MaxTokens is left alone: zero is a legal (if odd) cap.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = defaults.Server.BaseURL
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")
	if cfg.Server.Model == "" {
		cfg.Server.Model = defaults.Server.Model
	}
	if cfg.Server.TimeoutSecs == 0 {
		cfg.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaults.Storage.Path
	}

	if cfg.UI.DefaultName == "" {
		cfg.UI.DefaultName = defaults.UI.DefaultName
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.SidebarWidth == 0 {
		cfg.UI.SidebarWidth = defaults.UI.SidebarWidth
	}
	if cfg.UI.MinWidth == 0 {
		cfg.UI.MinWidth = defaults.UI.MinWidth
	}
	if cfg.UI.MinHeight == 0 {
		cfg.UI.MinHeight = defaults.UI.MinHeight
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the TOML file at path on top of the defaults.
// A missing file is not an error. On a decode or validation error the
// returned Config still holds the defaults, so callers can carry on.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	}

	loaded := Default()
	if _, err := toml.DecodeFile(path, loaded); err != nil {
		return cfg, fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(loaded)

	if err := loaded.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return loaded, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Server.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "server.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Server.BaseURL),
		})
	}
	if c.Server.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: "must be positive",
		})
	}
	if c.Server.Temperature < 0 || c.Server.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "server.temperature",
			Message: fmt.Sprintf("%.2f out of range, must be between 0 and 2", c.Server.Temperature),
		})
	}
	if c.Server.MaxTokens < -1 {
		errs = append(errs, ValidationError{
			Field:   "server.max_tokens",
			Message: "must be -1 (unbounded) or a positive count",
		})
	}

	theme := strings.ToLower(c.UI.Theme)
	if theme != "auto" && theme != "dark" && theme != "light" {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if c.UI.MinWidth < 20 || c.UI.MinHeight < 10 {
		errs = append(errs, ValidationError{
			Field:   "ui.min_width",
			Message: "minimum window size must be at least 20x10",
		})
	}
	if c.UI.SidebarWidth < 10 || c.UI.SidebarWidth >= c.UI.MinWidth {
		errs = append(errs, ValidationError{
			Field:   "ui.sidebar_width",
			Message: "must be at least 10 and narrower than ui.min_width",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
