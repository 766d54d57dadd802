// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lmchat/internal/model"
)

func newTestFile(t *testing.T) *ConversationFile {
	t.Helper()
	return NewConversationFile(filepath.Join(t.TempDir(), "conversations.json"), zerolog.Nop())
}

func sampleConversations() []model.SavedConversation {
	return []model.SavedConversation{
		{
			Name: "Trip planning",
			Messages: []model.ChatMessage{
				{Content: "Where should I go?", IsUser: true, Timestamp: "09:15"},
				{Content: "Lisbon is lovely in spring.", IsUser: false, Timestamp: "09:16"},
			},
		},
		{
			Name:     "Recipes",
			Messages: []model.ChatMessage{{Content: "Pancakes?", IsUser: true, Timestamp: "18:02"}},
		},
		{
			Name:     "Go questions",
			Messages: []model.ChatMessage{{Content: "What is a channel?", IsUser: true, Timestamp: "22:40"}},
		},
	}
}

// =============================================================================
// CONVERSATION FILE TESTS
// =============================================================================

func TestNewConversationFile_DefaultPath(t *testing.T) {
	f := NewConversationFile("", zerolog.Nop())
	assert.Equal(t, "conversations.json", f.Path())
}

func TestConversationFile_SaveAndLoad(t *testing.T) {
	f := newTestFile(t)
	want := sampleConversations()

	require.NoError(t, f.Save(want))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConversationFile_PreservesOrder(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.Save(sampleConversations()))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Trip planning", "Recipes", "Go questions"}, model.Names(got))
}

func TestConversationFile_FileFormat(t *testing.T) {
	f := newTestFile(t)
	convs := []model.SavedConversation{{
		Name:     "a",
		Messages: []model.ChatMessage{{Content: "hi", IsUser: true, Timestamp: "10:00"}},
	}}
	require.NoError(t, f.Save(convs))

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)

	want := `[
  {
    "name": "a",
    "messages": [
      {
        "content": "hi",
        "is_user": true,
        "timestamp": "10:00"
      }
    ]
  }
]`
	assert.Equal(t, want, string(data))
}

func TestConversationFile_SaveNil(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.Save(nil))

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestConversationFile_SaveReplacesContent(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.Save(sampleConversations()))
	require.NoError(t, f.Save(sampleConversations()[:1]))

	got, err := f.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Trip planning", got[0].Name)
}

func TestConversationFile_LoadMissing(t *testing.T) {
	f := newTestFile(t)

	got, err := f.Load()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestConversationFile_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `[{"name": "a", "messages": [`},
		{"not json", `hello`},
		{"wrong shape", `{"name": "a"}`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFile(t)
			require.NoError(t, os.WriteFile(f.Path(), []byte(tt.content), 0644))

			got, err := f.Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorrupt)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestConversationFile_LoadNull(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, os.WriteFile(f.Path(), []byte("null"), 0644))

	got, err := f.Load()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestConversationFile_LoadNullMessages(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, os.WriteFile(f.Path(), []byte(`[{"name":"a","messages":null},{"name":"b"}]`), 0644))

	got, err := f.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.NotNil(t, c.Messages)
		assert.Empty(t, c.Messages)
	}
}

func TestConversationFile_LoadIsIdempotent(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.Save(sampleConversations()))

	first, err := f.Load()
	require.NoError(t, err)
	second, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConversationFile_SaveDoesNotAlias(t *testing.T) {
	f := newTestFile(t)
	convs := sampleConversations()
	require.NoError(t, f.Save(convs))

	convs[0].Messages[0].Content = "mutated"

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, "Where should I go?", got[0].Messages[0].Content)
}

func TestConversationFile_UnicodeContent(t *testing.T) {
	f := newTestFile(t)
	convs := []model.SavedConversation{{
		Name:     "日本語 🚀",
		Messages: []model.ChatMessage{{Content: "\"quoted\"\nnew line\ttab", IsUser: true, Timestamp: "00:00"}},
	}}
	require.NoError(t, f.Save(convs))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, convs, got)
}

// =============================================================================
// WATCH TESTS
// =============================================================================

func TestConversationFile_WatchSignalsOnSave(t *testing.T) {
	f := newTestFile(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := f.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, f.Save(sampleConversations()))

	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal after save")
	}
}

func TestConversationFile_WatchIgnoresOtherFiles(t *testing.T) {
	f := newTestFile(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := f.Watch(ctx)
	require.NoError(t, err)

	other := filepath.Join(filepath.Dir(f.Path()), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	select {
	case <-changes:
		t.Fatal("unexpected signal for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConversationFile_WatchClosesOnCancel(t *testing.T) {
	f := newTestFile(t)
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := f.Watch(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestConversationFile_WatchMissingDir(t *testing.T) {
	f := NewConversationFile(filepath.Join(t.TempDir(), "missing", "conversations.json"), zerolog.Nop())

	_, err := f.Watch(context.Background())
	assert.Error(t, err)
}
