// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/lmchat/internal/model"
)

const (
	// DefaultConversationName labels a conversation that has not been saved.
	DefaultConversationName = "New conversation"

	// PlaceholderModel is accepted by the server as "whatever is loaded".
	PlaceholderModel = "local-model"

	// ErrorReplyPrefix starts the assistant message shown when a send fails.
	ErrorReplyPrefix = "Error communicating with the inference server: "

	// DefaultTimeout bounds a single inference request.
	DefaultTimeout = 20 * time.Minute

	// StatusDuration is how long a status notice stays visible.
	StatusDuration = 4 * time.Second
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Sender performs a chat completion request.
type Sender interface {
	SendMessage(ctx context.Context, model string, history []model.HistoryMessage) (string, error)
}

// Store persists the saved-conversation collection.
type Store interface {
	Save(convs []model.SavedConversation) error
}

// Loader reads the saved-conversation collection.
type Loader interface {
	Load() ([]model.SavedConversation, error)
}

// ModelLister queries the models known to the inference server.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
	LoadedModel(ctx context.Context) (string, error)
}

// Env carries the collaborators Update needs. Zero values are usable: a nil
// Store skips persistence, a nil Now uses time.Now and a zero Timeout uses
// DefaultTimeout.
type Env struct {
	Sender  Sender
	Store   Store
	Now     func() time.Time
	Timeout time.Duration
	Logger  zerolog.Logger
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) timeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}
	return e.Timeout
}

// =============================================================================
// STATE
// =============================================================================

// Options configure a new State.
type Options struct {
	// DefaultName labels unsaved conversations (default: "New conversation")
	DefaultName string

	// Model is sent with every request until the server reports another
	// (default: "local-model")
	Model string
}

// State is the whole application state.
type State struct {
	// Messages is the active transcript. Never nil.
	Messages []model.ChatMessage

	// Input is the pending text in the input bar.
	Input string

	// ConversationName is the display name of the active transcript.
	ConversationName string

	// Saved is the saved-conversation collection, in display order.
	Saved []model.SavedConversation

	// ShowSaveDialog is the only modal flag.
	ShowSaveDialog bool

	// SaveName is the text in the save dialog's name field.
	SaveName string

	// Pending is set while a reply is outstanding.
	Pending bool

	// Model is the model id sent with requests.
	Model string

	// Models lists the ids reported by the server.
	Models []string

	// Status is a transient notice for the footer.
	Status string

	statusSeq   int
	writeSeq    uint64
	writeErr    error
	defaultName string
}

// New returns the initial state around an already loaded collection.
func New(saved []model.SavedConversation, opts Options) *State {
	if opts.DefaultName == "" {
		opts.DefaultName = DefaultConversationName
	}
	if opts.Model == "" {
		opts.Model = PlaceholderModel
	}
	if saved == nil {
		saved = []model.SavedConversation{}
	}

	return &State{
		Messages:         []model.ChatMessage{},
		ConversationName: opts.DefaultName,
		Saved:            saved,
		Model:            opts.Model,
		defaultName:      opts.DefaultName,
	}
}

// DefaultName returns the label used for unsaved conversations.
func (s *State) DefaultName() string {
	return s.defaultName
}

// WriteSeq counts the writes this state has made to the store. Reloads
// carry the count they were started under; any other value marks them stale.
func (s *State) WriteSeq() uint64 {
	return s.writeSeq
}

// WriteErr reports the outcome of the most recent write.
func (s *State) WriteErr() error {
	return s.writeErr
}

// LastReply returns the newest assistant message content, if any.
func (s *State) LastReply() (string, bool) {
	msg, ok := model.LastAssistantMessage(s.Messages)
	return msg.Content, ok
}
