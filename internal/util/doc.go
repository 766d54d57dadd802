// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across lmchat.
//
// # Key Functions
//
//   - AtomicWriteFile: Crash-safe file writing with fsync and rename
//   - TruncateWidth: Display-width aware truncation for terminal cells
//   - FitWidth: Truncate or pad a string to an exact cell width
//
// # Usage
//
//	// Persist a document without ever leaving a half-written file
//	err := util.AtomicWriteFile(path, data, 0644)
//
//	// Fit a conversation name into a sidebar column
//	label := util.TruncateWidth(name, 24)
package util
