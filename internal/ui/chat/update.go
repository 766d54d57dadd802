// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/lmchat/internal/app"
)

// Fixed pane heights, matching the styles in the theme.
const (
	headerHeight = 2 // title line + bottom border
	inputHeight  = 3 // input line + rounded border
	footerHeight = 1
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.state.Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case app.SavedReloadedMsg:
		cmd := m.dispatch(msg)
		return m, tea.Batch(cmd, app.WatchCmd(m.changes, m.loader, m.state.WriteSeq()))
	}

	return m, m.dispatch(msg)
}

// dispatch applies msg to the application state and brings the widgets in
// line with the result.
func (m *Model) dispatch(msg tea.Msg) tea.Cmd {
	wasPending := m.state.Pending
	cmd := m.state.Update(msg, m.env)
	m.syncWidgets()

	if m.state.Pending && !wasPending {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.state.ShowSaveDialog {
		return m.handleDialogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.New):
		return m, m.dispatch(app.NewConversationMsg{})

	case key.Matches(msg, m.keys.Save):
		return m, m.dispatch(app.ShowSaveDialogMsg{})

	case key.Matches(msg, m.keys.Clear):
		return m, m.dispatch(app.ClearChatMsg{})

	case key.Matches(msg, m.keys.Model):
		return m, m.dispatch(app.CycleModelMsg{})

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLastReply()

	case key.Matches(msg, m.keys.Focus):
		m.toggleFocus()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.dispatch(app.SendMsg{})

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if m.input.Value() == m.state.Input {
		return m, inputCmd
	}
	return m, tea.Batch(inputCmd, m.dispatch(app.InputChangedMsg{Value: m.input.Value()}))
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Saved)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Submit):
		if len(m.state.Saved) == 0 {
			return m, nil
		}
		cmd := m.dispatch(app.LoadConversationMsg{Index: m.cursor})
		m.setFocus(focusInput)
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		return m, m.dispatch(app.DeleteConversationMsg{Index: m.cursor})
	}
	return m, nil
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m, m.dispatch(app.HideSaveDialogMsg{})

	case key.Matches(msg, m.keys.Submit):
		writes := m.state.WriteSeq()
		cmd := m.dispatch(app.ConfirmSaveMsg{})
		switch {
		case m.state.ShowSaveDialog:
			return m, tea.Batch(cmd, m.dispatch(app.StatusMsg{Text: saveRefusedNotice(m.state)}))
		case m.state.WriteSeq() != writes && m.state.WriteErr() != nil:
			// persistence failure notice stays visible
			return m, cmd
		}
		return m, tea.Batch(cmd, m.dispatch(app.StatusMsg{Text: "Saved \"" + m.state.ConversationName + "\""}))
	}

	var inputCmd tea.Cmd
	m.saveInput, inputCmd = m.saveInput.Update(msg)
	if m.saveInput.Value() == m.state.SaveName {
		return m, inputCmd
	}
	return m, tea.Batch(inputCmd, m.dispatch(app.SaveNameChangedMsg{Value: m.saveInput.Value()}))
}

// saveRefusedNotice explains why a confirm left the dialog open.
func saveRefusedNotice(s *app.State) string {
	if len(s.Messages) == 0 {
		return "Nothing to save yet"
	}
	return "Enter a name to save"
}

func (m *Model) copyLastReply() tea.Cmd {
	text, ok := m.state.LastReply()
	if !ok {
		return m.dispatch(app.StatusMsg{Text: "No reply to copy"})
	}
	if err := m.copy(text); err != nil {
		m.env.Logger.Warn().Err(err).Msg("clipboard write failed")
		return m.dispatch(app.StatusMsg{Text: "Clipboard unavailable"})
	}
	return m.dispatch(app.StatusMsg{Text: "Copied last reply"})
}

// =============================================================================
// FOCUS AND WIDGET SYNC
// =============================================================================

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.setFocus(focusSidebar)
		return
	}
	m.setFocus(focusInput)
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput && !m.state.ShowSaveDialog {
		m.input.Focus()
		return
	}
	m.input.Blur()
}

// syncWidgets copies state into the widgets after an update.
func (m *Model) syncWidgets() {
	if m.input.Value() != m.state.Input {
		m.input.SetValue(m.state.Input)
	}

	switch {
	case m.state.ShowSaveDialog && !m.saveInput.Focused():
		m.saveInput.SetValue(m.state.SaveName)
		m.saveInput.CursorEnd()
		m.saveInput.Focus()
		m.input.Blur()
	case m.state.ShowSaveDialog:
		if m.saveInput.Value() != m.state.SaveName {
			m.saveInput.SetValue(m.state.SaveName)
		}
	case m.saveInput.Focused():
		m.saveInput.Blur()
		m.saveInput.SetValue("")
		m.setFocus(m.focus)
	}

	if m.cursor >= len(m.state.Saved) {
		m.cursor = len(m.state.Saved) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	m.refreshViewport()
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	mainWidth := m.mainWidth()
	m.viewport.Width = mainWidth
	m.viewport.Height = max(1, m.height-headerHeight-inputHeight-footerHeight)

	// border (2) + padding (2) + prompt (2) + cursor (1)
	m.input.Width = max(10, mainWidth-7)
	m.help.Width = m.width

	m.refreshViewport()
}

func (m Model) mainWidth() int {
	return max(1, m.width-m.sidebarWidth)
}

// refreshViewport re-renders the transcript, following the newest message
// when one arrived or the view was already at the bottom.
func (m *Model) refreshViewport() {
	if m.viewport.Width <= 0 {
		return
	}
	if m.bubbles == nil {
		m.bubbles = &bubbleCache{}
	}
	if !m.bubbles.update(m.theme, m.state.Messages, m.viewport.Width, m.renderMarkdown) {
		return
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.bubbles.content(m.theme))

	if count := len(m.state.Messages); count != m.shownMessages || atBottom {
		m.viewport.GotoBottom()
		m.shownMessages = count
	}
}

// renderMarkdown renders an assistant reply, or reports false when markdown
// is off or the renderer cannot be built.
func (m *Model) renderMarkdown(content string, width int) (string, bool) {
	if !m.markdown || width <= 0 {
		return "", false
	}
	if m.renderer == nil || m.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.theme.GlamourStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.env.Logger.Warn().Err(err).Msg("markdown renderer unavailable")
			m.markdown = false
			return "", false
		}
		m.renderer = r
		m.rendererWidth = width
	}

	out, err := m.renderer.Render(content)
	if err != nil {
		return "", false
	}
	return out, true
}
