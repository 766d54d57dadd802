// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for lmchat.
//
// Settings come from a TOML file in the working directory (lmchat.toml).
// A missing file means built-in defaults; missing keys are filled from the
// defaults as well.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - ServerConfig: Inference server endpoint, model and request parameters
//   - StorageConfig: Location of the saved-conversation file
//   - UIConfig: Layout and rendering preferences
//   - LogConfig: Log file and level
//
// # Usage
//
//	cfg, err := config.Load(config.DefaultPath)
//	if err != nil {
//	    // cfg still holds usable defaults
//	}
//	timeout := cfg.Server.Timeout()
package config
