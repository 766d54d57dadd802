// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lmchat/internal/app"
	"github.com/jeranaias/lmchat/internal/model"
	"github.com/jeranaias/lmchat/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type stubSender struct {
	calls int
}

func (s *stubSender) SendMessage(ctx context.Context, modelName string, history []model.HistoryMessage) (string, error) {
	s.calls++
	return "ok", nil
}

type stubStore struct {
	saves [][]model.SavedConversation
	err   error
}

func (s *stubStore) Save(convs []model.SavedConversation) error {
	s.saves = append(s.saves, append([]model.SavedConversation(nil), convs...))
	return s.err
}

func testSaved() []model.SavedConversation {
	return []model.SavedConversation{
		{Name: "Alpha", Messages: []model.ChatMessage{{Content: "alpha question", IsUser: true, Timestamp: "10:00"}}},
		{Name: "Beta", Messages: []model.ChatMessage{{Content: "beta question", IsUser: true, Timestamp: "11:00"}}},
	}
}

func newTestModel(t *testing.T, saved []model.SavedConversation) (Model, *stubSender, *stubStore) {
	t.Helper()
	sender := &stubSender{}
	store := &stubStore{}
	m := New(Options{
		Theme: styles.NewTheme(styles.ModeDark),
		State: app.New(saved, app.Options{}),
		Env: app.Env{
			Sender: sender,
			Store:  store,
			Now:    func() time.Time { return time.Date(2025, 1, 2, 15, 4, 0, 0, time.Local) },
			Logger: zerolog.Nop(),
		},
		Copy: func(string) error { return nil },
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, sender, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

// =============================================================================
// INPUT TESTS
// =============================================================================

func TestModel_TypingUpdatesState(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	m = typeText(t, m, "hello")

	assert.Equal(t, "hello", m.State().Input)
}

func TestModel_EnterSends(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = typeText(t, m, "hi")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.NotNil(t, cmd)
	require.Len(t, m.State().Messages, 1)
	assert.Equal(t, "hi", m.State().Messages[0].Content)
	assert.Empty(t, m.State().Input)
	assert.Empty(t, m.input.Value(), "input widget cleared")
	assert.True(t, m.State().Pending)

	m = update(t, m, app.MessageReceivedMsg{Content: "hello back"})
	require.Len(t, m.State().Messages, 2)
	assert.False(t, m.State().Pending)
	assert.Contains(t, m.View(), "hello back")
}

func TestModel_EnterOnBlankInputDoesNothing(t *testing.T) {
	m, sender, _ := newTestModel(t, nil)
	m = typeText(t, m, "   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, m.State().Messages)
	assert.Equal(t, 0, sender.calls)
}

func TestModel_DeleteKeyTypesInInput(t *testing.T) {
	m, _, store := newTestModel(t, testSaved())

	m = typeText(t, m, "d")

	assert.Equal(t, "d", m.State().Input)
	assert.Len(t, m.State().Saved, 2)
	assert.Empty(t, store.saves)
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestModel_SidebarLoad(t *testing.T) {
	m, _, _ := newTestModel(t, testSaved())

	m = press(t, m, tea.KeyTab)
	assert.Equal(t, focusSidebar, m.focus)

	m = press(t, m, tea.KeyDown)
	assert.Equal(t, 1, m.cursor)
	m = press(t, m, tea.KeyDown)
	assert.Equal(t, 1, m.cursor, "cursor stops at the last entry")

	m = press(t, m, tea.KeyEnter)
	assert.Equal(t, "Beta", m.State().ConversationName)
	require.Len(t, m.State().Messages, 1)
	assert.Equal(t, focusInput, m.focus)
}

func TestModel_SidebarDelete(t *testing.T) {
	m, _, store := newTestModel(t, testSaved())

	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyDown)
	m = typeText(t, m, "d")

	assert.Equal(t, []string{"Alpha"}, model.Names(m.State().Saved))
	assert.Equal(t, 0, m.cursor, "cursor clamped to remaining entries")
	require.Len(t, store.saves, 1)
}

func TestModel_SidebarDeleteEmpty(t *testing.T) {
	m, _, store := newTestModel(t, nil)

	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyDelete)

	assert.Empty(t, m.State().Saved)
	assert.Empty(t, store.saves)
}

// =============================================================================
// SAVE DIALOG TESTS
// =============================================================================

func TestModel_SaveDialogFlow(t *testing.T) {
	m, _, store := newTestModel(t, testSaved())
	m = typeText(t, m, "question")
	m = press(t, m, tea.KeyEnter)
	m = update(t, m, app.MessageReceivedMsg{Content: "answer"})

	m = press(t, m, tea.KeyCtrlS)
	require.True(t, m.State().ShowSaveDialog)
	assert.Equal(t, app.DefaultConversationName, m.State().SaveName)
	assert.Equal(t, app.DefaultConversationName, m.saveInput.Value())
	assert.Contains(t, m.View(), "Save conversation")

	m = typeText(t, m, " 2")
	assert.Equal(t, app.DefaultConversationName+" 2", m.State().SaveName)
	assert.Empty(t, m.State().Input, "dialog keys do not reach the input bar")

	m = press(t, m, tea.KeyEnter)
	assert.False(t, m.State().ShowSaveDialog)
	assert.Equal(t, app.DefaultConversationName+" 2", m.State().ConversationName)
	assert.Equal(t, []string{"Alpha", "Beta", app.DefaultConversationName + " 2"}, model.Names(m.State().Saved))
	require.Len(t, store.saves, 1)
	assert.NotContains(t, m.View(), "Save conversation")
}

func TestModel_SaveDialogRepeatedFailure(t *testing.T) {
	m, _, store := newTestModel(t, testSaved())
	store.err = errors.New("disk full")

	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, "d")
	failure := m.State().Status
	require.Contains(t, failure, "disk full")

	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, "question")
	m = press(t, m, tea.KeyEnter)
	m = update(t, m, app.MessageReceivedMsg{Content: "answer"})
	m = press(t, m, tea.KeyCtrlS)
	m = press(t, m, tea.KeyEnter)

	assert.False(t, m.State().ShowSaveDialog)
	assert.Equal(t, failure, m.State().Status, "failed write is not reported as saved")
	assert.Len(t, store.saves, 2)
}

func TestModel_SaveDialogKeepsLongName(t *testing.T) {
	long := strings.Repeat("long name ", 15)
	saved := []model.SavedConversation{{Name: long, Messages: []model.ChatMessage{{Content: "q", IsUser: true, Timestamp: "10:00"}}}}
	m, _, store := newTestModel(t, saved)

	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyCtrlS)
	assert.Equal(t, long, m.saveInput.Value(), "field holds the whole name")

	m = typeText(t, m, "x")
	assert.Equal(t, long+"x", m.State().SaveName)
	assert.Equal(t, m.saveInput.Value(), m.State().SaveName)

	m = press(t, m, tea.KeyEnter)
	require.Len(t, store.saves, 1)
	assert.Equal(t, []string{long, long + "x"}, model.Names(store.saves[0]))
}

func TestModel_SaveDialogCancel(t *testing.T) {
	m, _, store := newTestModel(t, nil)

	m = press(t, m, tea.KeyCtrlS)
	m = press(t, m, tea.KeyEsc)

	assert.False(t, m.State().ShowSaveDialog)
	assert.Empty(t, m.State().SaveName)
	assert.Empty(t, store.saves)
	assert.True(t, m.input.Focused(), "focus returns to the input bar")
}

func TestModel_SaveDialogEmptyTranscript(t *testing.T) {
	m, _, store := newTestModel(t, nil)

	m = press(t, m, tea.KeyCtrlS)
	m = press(t, m, tea.KeyEnter)

	assert.True(t, m.State().ShowSaveDialog)
	assert.Empty(t, m.State().Saved)
	assert.Empty(t, store.saves)
	assert.Equal(t, "Nothing to save yet", m.State().Status)
}

// =============================================================================
// GLOBAL KEY TESTS
// =============================================================================

func TestModel_NewAndClear(t *testing.T) {
	m, _, _ := newTestModel(t, testSaved())
	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyEnter)
	require.Equal(t, "Alpha", m.State().ConversationName)

	m = press(t, m, tea.KeyCtrlL)
	assert.Empty(t, m.State().Messages)
	assert.Equal(t, "Alpha", m.State().ConversationName)

	m = press(t, m, tea.KeyCtrlN)
	assert.Equal(t, app.DefaultConversationName, m.State().ConversationName)
}

func TestModel_CycleModel(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = update(t, m, app.ModelsListedMsg{Models: []string{"a", "b"}})
	assert.Equal(t, "a", m.State().Model)

	m = press(t, m, tea.KeyCtrlO)
	assert.Equal(t, "b", m.State().Model)
	assert.Contains(t, m.View(), "b")
}

func TestModel_CopyLastReply(t *testing.T) {
	var copied string
	m, _, _ := newTestModel(t, nil)
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	m = press(t, m, tea.KeyCtrlY)
	assert.Equal(t, "No reply to copy", m.State().Status)

	m = typeText(t, m, "q")
	m = press(t, m, tea.KeyEnter)
	m = update(t, m, app.MessageReceivedMsg{Content: "the reply"})
	m = press(t, m, tea.KeyCtrlY)

	assert.Equal(t, "the reply", copied)
	assert.Equal(t, "Copied last reply", m.State().Status)
}

func TestModel_CopyFailure(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m.copy = func(string) error { return errors.New("no clipboard") }
	m = update(t, m, app.MessageReceivedMsg{Content: "x"})

	m = press(t, m, tea.KeyCtrlY)
	assert.Equal(t, "Clipboard unavailable", m.State().Status)
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_TypingKeepsTranscript(t *testing.T) {
	m, _, _ := newTestModel(t, testSaved())
	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyEnter)
	require.Len(t, m.bubbles.blocks, 1)
	m.bubbles.blocks[0].out = "CACHED"

	m = typeText(t, m, "abc")

	assert.Contains(t, m.viewport.View(), "alpha question", "typing does not rewrite the viewport")
	assert.Equal(t, "CACHED", m.bubbles.blocks[0].out)
}

// =============================================================================
// RELOAD TESTS
// =============================================================================

type stubLoader struct{}

func (stubLoader) Load() ([]model.SavedConversation, error) {
	return nil, nil
}

func TestModel_SavedReloadedRewatches(t *testing.T) {
	m, _, _ := newTestModel(t, testSaved())
	m.changes = make(chan struct{})
	m.loader = stubLoader{}
	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyDown)

	reloaded := []model.SavedConversation{{Name: "Gamma", Messages: []model.ChatMessage{}}}
	next, cmd := m.Update(app.SavedReloadedMsg{Saved: reloaded})
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.Equal(t, reloaded, m.State().Saved)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.View(), "Gamma")
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestModel_ViewBeforeSize(t *testing.T) {
	m := New(Options{Theme: styles.NewTheme(styles.ModeDark)})
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_TooSmall(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.True(t, m.TooSmall())
	assert.Contains(t, m.View(), "Terminal too small")

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.False(t, m.TooSmall())
	assert.NotContains(t, m.View(), "Terminal too small")
}

func TestModel_ViewFitsWindow(t *testing.T) {
	m, _, _ := newTestModel(t, testSaved())
	m = update(t, m, app.MessageReceivedMsg{Content: strings.Repeat("long reply line ", 40)})

	view := m.View()
	lines := strings.Split(view, "\n")
	assert.LessOrEqual(t, len(lines), 30)
	assert.Contains(t, view, "Alpha")
	assert.Contains(t, view, "Beta")
	assert.Contains(t, view, app.DefaultConversationName)
}
