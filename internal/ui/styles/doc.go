// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for lmchat.
//
// Colors are Lip Gloss AdaptiveColor values, so one palette serves both
// light and dark terminals. The Theme groups the styles used by each pane
// of the chat screen.
//
// # Usage
//
//	theme := styles.NewTheme(styles.ModeAuto)
//	bubble := theme.UserBubble.Render("Hello")
package styles
