// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across lmchat.
package util

import "github.com/mattn/go-runewidth"

// Ellipsis is appended to strings shortened by TruncateWidth.
const Ellipsis = "…"

// TruncateWidth shortens s to at most maxWidth terminal cells, appending an
// ellipsis when something was cut. Wide (CJK) runes count as two cells.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= runewidth.StringWidth(Ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// FitWidth truncates or right-pads s to exactly width cells.
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(TruncateWidth(s, width), width)
}
