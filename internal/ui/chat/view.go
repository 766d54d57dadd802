// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/lmchat/internal/app"
	"github.com/jeranaias/lmchat/internal/model"
	"github.com/jeranaias/lmchat/internal/ui/styles"
	"github.com/jeranaias/lmchat/internal/util"
)

// markdownFunc renders assistant content at a width, reporting false to
// fall back to plain text.
type markdownFunc func(content string, width int) (string, bool)

// View renders the chat screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.TooSmall() {
		return renderTooSmall(m.theme, m.width, m.height, m.minWidth, m.minHeight)
	}

	dialogOpen := m.state.ShowSaveDialog
	mainWidth := m.mainWidth()

	sidebar := renderSidebar(m.theme, m.state, m.cursor, m.focus == focusSidebar && !dialogOpen, m.sidebarWidth, m.height-footerHeight)
	chatArea := lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.theme, m.state, m.spinner.View(), mainWidth),
		m.viewport.View(),
		renderInput(m.theme, m.input.View(), m.focus == focusInput && !dialogOpen, mainWidth),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, chatArea)
	footer := renderFooter(m.theme, m.help, m.footerBindings(), m.state.Status, m.width)
	screen := lipgloss.JoinVertical(lipgloss.Left, body, footer)

	if dialogOpen {
		dialog := renderSaveDialog(m.theme, m.saveInput.View(), len(m.state.Messages) > 0, m.width)
		screen = overlayCenter(screen, dialog, m.width, m.height)
	}
	return screen
}

func (m Model) footerBindings() []key.Binding {
	switch {
	case m.state.ShowSaveDialog:
		return m.keys.dialogHelp()
	case m.focus == focusSidebar:
		return m.keys.sidebarHelp()
	default:
		return m.keys.ShortHelp()
	}
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar renders the saved conversation list at exactly width x height.
func renderSidebar(theme *styles.Theme, s *app.State, cursor int, focused bool, width, height int) string {
	style := theme.Sidebar
	if focused {
		style = theme.SidebarFocused
	}
	innerWidth := max(1, width-style.GetHorizontalFrameSize())
	innerHeight := max(1, height-style.GetVerticalFrameSize())

	lines := []string{
		theme.SidebarTitle.Render(util.TruncateWidth("Conversations", innerWidth)),
		theme.SidebarHint.Render(util.TruncateWidth("C-n new · C-s save", innerWidth)),
		"",
	}

	// title block above, one blank plus the action hint below
	rows := max(1, innerHeight-len(lines)-2)

	if len(s.Saved) == 0 {
		lines = append(lines, theme.SidebarEmpty.Render(util.TruncateWidth("No saved conversations", innerWidth)))
	} else {
		start := 0
		if cursor >= rows {
			start = cursor - rows + 1
		}
		end := min(len(s.Saved), start+rows)
		for i := start; i < end; i++ {
			lines = append(lines, renderSidebarItem(theme, s.Saved[i].Name, i == cursor, focused, s.Saved[i].Name == s.ConversationName, innerWidth))
		}
	}

	for len(lines) < innerHeight-1 {
		lines = append(lines, "")
	}
	if focused {
		lines = append(lines, theme.SidebarHint.Render(util.TruncateWidth("enter open · d delete", innerWidth)))
	} else {
		lines = append(lines, theme.SidebarHint.Render(util.TruncateWidth("tab to browse", innerWidth)))
	}

	return style.
		Width(width - style.GetHorizontalBorderSize()).
		Height(height - style.GetVerticalBorderSize()).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

func renderSidebarItem(theme *styles.Theme, name string, selected, focused, active bool, width int) string {
	marker := "  "
	if selected {
		marker = "› "
	}
	text := util.FitWidth(marker+util.TruncateWidth(name, max(1, width-2)), width)

	switch {
	case selected && focused:
		return theme.SidebarSelected.Render(text)
	case active:
		return theme.SidebarActive.Render(text)
	default:
		return theme.SidebarItem.Render(text)
	}
}

// =============================================================================
// HEADER
// =============================================================================

// renderHeader renders the conversation name, the pending indicator and the
// active model on one line.
func renderHeader(theme *styles.Theme, s *app.State, spinnerView string, width int) string {
	style := theme.Header
	inner := max(1, width-style.GetHorizontalFrameSize())

	right := theme.HeaderModel.Render(s.Model)
	if s.Pending {
		right = spinnerView + " " + theme.HeaderPending.Render("waiting for reply") + "  " + right
	}

	titleWidth := max(1, inner-lipgloss.Width(right)-1)
	title := theme.HeaderTitle.Render(util.TruncateWidth(s.ConversationName, titleWidth))

	gap := max(1, inner-lipgloss.Width(title)-lipgloss.Width(right))
	line := ansi.Truncate(title+strings.Repeat(" ", gap)+right, inner, "")

	return style.Width(width - style.GetHorizontalBorderSize()).Render(line)
}

// =============================================================================
// MESSAGES
// =============================================================================

// renderMessages renders the transcript as bubbles: user messages on the
// right, assistant messages on the left, each followed by its timestamp.
func renderMessages(theme *styles.Theme, messages []model.ChatMessage, width int, md markdownFunc) string {
	var cache bubbleCache
	cache.update(theme, messages, width, md)
	return cache.content(theme)
}

// bubbleCache holds rendered bubbles by transcript position for one width.
type bubbleCache struct {
	width  int
	blocks []cachedBubble
}

type cachedBubble struct {
	msg model.ChatMessage
	out string
}

// update renders the messages that differ from the cached ones and reports
// whether the transcript output changed.
func (c *bubbleCache) update(theme *styles.Theme, messages []model.ChatMessage, width int, md markdownFunc) bool {
	changed := c.width != width || len(c.blocks) != len(messages)
	if c.width != width {
		c.width = width
		c.blocks = c.blocks[:0]
	}
	if len(c.blocks) > len(messages) {
		c.blocks = c.blocks[:len(messages)]
	}

	bubbleWidth := min(width, max(20, width*3/4))
	for i, msg := range messages {
		if i < len(c.blocks) && c.blocks[i].msg == msg {
			continue
		}
		block := cachedBubble{msg: msg, out: renderBubble(theme, msg, bubbleWidth, width, md)}
		if i < len(c.blocks) {
			c.blocks[i] = block
		} else {
			c.blocks = append(c.blocks, block)
		}
		changed = true
	}
	return changed
}

func (c *bubbleCache) content(theme *styles.Theme) string {
	if len(c.blocks) == 0 {
		hint := theme.EmptyTranscript.Render("Type a message and press enter to start")
		return "\n" + lipgloss.PlaceHorizontal(c.width, lipgloss.Center, hint)
	}

	out := make([]string, len(c.blocks))
	for i, b := range c.blocks {
		out[i] = b.out
	}
	return strings.Join(out, "\n")
}

func renderBubble(theme *styles.Theme, msg model.ChatMessage, bubbleWidth, width int, md markdownFunc) string {
	style := theme.AssistantBubble
	align := lipgloss.Left
	if msg.IsUser {
		style = theme.UserBubble
		align = lipgloss.Right
	}
	inner := max(1, bubbleWidth-style.GetHorizontalFrameSize())

	body := ""
	if !msg.IsUser && md != nil {
		if out, ok := md(msg.Content, inner); ok {
			body = strings.Trim(out, "\n")
		}
	}
	if body == "" {
		content := msg.Content
		if content == "" {
			content = " "
		}
		textWidth := min(inner, lipgloss.Width(content))
		body = lipgloss.NewStyle().Width(textWidth).Render(content)
	}

	bubble := style.MaxWidth(width).Render(body)
	meta := theme.Timestamp.Render(msg.Role().DisplayName() + " · " + msg.Timestamp)
	block := lipgloss.JoinVertical(align, bubble, meta)
	return lipgloss.PlaceHorizontal(width, align, block)
}

// =============================================================================
// INPUT
// =============================================================================

// renderInput renders the input bar.
func renderInput(theme *styles.Theme, inputView string, focused bool, width int) string {
	style := theme.Input
	if focused {
		style = theme.InputFocused
	}
	inner := max(1, width-style.GetHorizontalFrameSize())
	return style.
		Width(width - style.GetHorizontalBorderSize()).
		Render(ansi.Truncate(inputView, inner, ""))
}

// =============================================================================
// SAVE DIALOG
// =============================================================================

// renderSaveDialog renders the save dialog box.
func renderSaveDialog(theme *styles.Theme, fieldView string, canSave bool, screenWidth int) string {
	style := theme.Dialog
	width := min(50, max(20, screenWidth-4))
	inner := max(1, width-style.GetHorizontalFrameSize())

	hint := "enter save · esc cancel"
	if !canSave {
		hint = "nothing to save yet · esc cancel"
	}

	field := theme.Input.
		BorderForeground(styles.FocusRing).
		Width(inner - theme.Input.GetHorizontalBorderSize()).
		Render(ansi.Truncate(fieldView, max(1, inner-theme.Input.GetHorizontalFrameSize()), ""))

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.DialogTitle.Render("Save conversation"),
		"",
		field,
		"",
		theme.DialogHint.Render(util.TruncateWidth(hint, inner)),
	)
	return style.Width(width - style.GetHorizontalBorderSize()).Render(content)
}

// overlayCenter draws top over the middle of base, keeping the base
// visible on either side.
func overlayCenter(base, top string, width, height int) string {
	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	topLines := strings.Split(top, "\n")

	topWidth := lipgloss.Width(top)
	x := max(0, (width-topWidth)/2)
	y := max(0, (height-len(topLines))/2)

	for i, line := range topLines {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		baseLine := baseLines[row]
		if w := lipgloss.Width(baseLine); w < width {
			baseLine += strings.Repeat(" ", width-w)
		}

		left := ansi.Truncate(baseLine, x, "")
		right := ansi.TruncateLeft(baseLine, x+lipgloss.Width(line), "")
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

// =============================================================================
// FOOTER
// =============================================================================

// renderFooter renders key help on the left and the status notice on the right.
func renderFooter(theme *styles.Theme, h help.Model, bindings []key.Binding, status string, width int) string {
	style := theme.Footer
	inner := max(1, width-style.GetHorizontalFrameSize())

	right := ""
	if status != "" {
		right = theme.Status.Render(util.TruncateWidth(status, max(1, inner/2)))
	}

	h.Width = max(1, inner-lipgloss.Width(right)-1)
	left := h.ShortHelpView(bindings)

	gap := max(1, inner-lipgloss.Width(left)-lipgloss.Width(right))
	line := ansi.Truncate(left+strings.Repeat(" ", gap)+right, inner, "")
	return style.Width(width).MaxHeight(footerHeight).Render(line)
}

// renderTooSmall replaces the layout when the window is below the minimum.
func renderTooSmall(theme *styles.Theme, width, height, minWidth, minHeight int) string {
	msg := fmt.Sprintf("Terminal too small: %dx%d (need %dx%d)", width, height, minWidth, minHeight)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.TooSmall.Render(util.TruncateWidth(msg, max(1, width))))
}
