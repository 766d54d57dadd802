// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/muesli/termenv"
)

// PendingSpinner animates the header while a reply is outstanding.
var PendingSpinner = spinner.Spinner{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    time.Second / 12,
}

// ASCIISpinner is used when the terminal cannot render braille.
var ASCIISpinner = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 8,
}

// Spinner picks the pending animation the terminal can show.
func (t *Theme) Spinner() spinner.Spinner {
	if t.ColorProfile == termenv.Ascii {
		return ASCIISpinner
	}
	return PendingSpinner
}
