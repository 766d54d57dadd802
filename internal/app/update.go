// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lmchat/internal/model"
)

// errNoSender is reported when a send is attempted without a client.
var errNoSender = errors.New("no inference client configured")

// Update applies msg to the state and returns at most one command.
// Messages it does not recognize are ignored.
func (s *State) Update(msg tea.Msg, env Env) tea.Cmd {
	switch msg := msg.(type) {

	// Input
	case InputChangedMsg:
		s.Input = msg.Value
		return nil

	case SendMsg:
		return s.handleSend(env)

	case MessageReceivedMsg:
		return s.handleReceived(msg, env)

	// Conversations
	case NewConversationMsg:
		s.Messages = []model.ChatMessage{}
		s.ConversationName = s.defaultName
		return nil

	case LoadConversationMsg:
		if msg.Index < 0 || msg.Index >= len(s.Saved) {
			return nil
		}
		conv := s.Saved[msg.Index]
		s.Messages = model.CloneMessages(conv.Messages)
		s.ConversationName = conv.Name
		return nil

	case DeleteConversationMsg:
		return s.handleDelete(msg, env)

	case ClearChatMsg:
		s.Messages = []model.ChatMessage{}
		return nil

	case SavedReloadedMsg:
		if msg.Seq != s.writeSeq {
			// read before one of our own writes landed
			env.Logger.Debug().Uint64("seq", msg.Seq).Uint64("writes", s.writeSeq).Msg("stale reload dropped")
			return nil
		}
		if msg.Err != nil {
			env.Logger.Warn().Err(msg.Err).Msg("reload of saved conversations failed")
			return s.setStatus("Could not reload saved conversations")
		}
		s.Saved = msg.Saved
		if s.Saved == nil {
			s.Saved = []model.SavedConversation{}
		}
		return nil

	// Save dialog
	case ShowSaveDialogMsg:
		s.ShowSaveDialog = true
		s.SaveName = s.ConversationName
		return nil

	case HideSaveDialogMsg:
		s.ShowSaveDialog = false
		s.SaveName = ""
		return nil

	case SaveNameChangedMsg:
		if s.ShowSaveDialog {
			s.SaveName = msg.Value
		}
		return nil

	case ConfirmSaveMsg:
		return s.handleConfirmSave(env)

	// Models
	case ModelsListedMsg:
		return s.handleModelsListed(msg, env)

	case CycleModelMsg:
		if len(s.Models) == 0 {
			return s.setStatus("No models reported by the server")
		}
		next := (slices.Index(s.Models, s.Model) + 1) % len(s.Models)
		s.Model = s.Models[next]
		return s.setStatus("Model: " + s.Model)

	// Status
	case StatusMsg:
		return s.setStatus(msg.Text)

	case ClearStatusMsg:
		if msg.Seq == s.statusSeq {
			s.Status = ""
		}
		return nil
	}

	return nil
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *State) handleSend(env Env) tea.Cmd {
	if strings.TrimSpace(s.Input) == "" {
		return nil
	}
	if s.Pending {
		return s.setStatus("Still waiting for the previous reply")
	}

	s.Messages = append(s.Messages, model.NewUserMessage(s.Input, env.now()))
	s.Input = ""
	s.Pending = true

	history := model.History(s.Messages)
	env.Logger.Debug().Str("model", s.Model).Int("history", len(history)).Msg("sending message")

	if env.Sender == nil {
		return func() tea.Msg { return MessageReceivedMsg{Err: errNoSender} }
	}
	return SendCmd(env.Sender, env.timeout(), s.Model, history)
}

func (s *State) handleReceived(msg MessageReceivedMsg, env Env) tea.Cmd {
	s.Pending = false

	content := msg.Content
	if msg.Err != nil {
		env.Logger.Error().Err(msg.Err).Str("model", s.Model).Msg("inference request failed")
		content = ErrorReplyPrefix + msg.Err.Error()
	}
	s.Messages = append(s.Messages, model.NewAssistantMessage(content, env.now()))
	return nil
}

func (s *State) handleDelete(msg DeleteConversationMsg, env Env) tea.Cmd {
	remaining, ok := model.Remove(slices.Clone(s.Saved), msg.Index)
	if !ok {
		return nil
	}
	name := s.Saved[msg.Index].Name
	s.Saved = remaining

	env.Logger.Info().Str("name", name).Msg("conversation deleted")
	return s.persist(env)
}

func (s *State) handleConfirmSave(env Env) tea.Cmd {
	if strings.TrimSpace(s.SaveName) == "" || len(s.Messages) == 0 {
		return nil
	}

	conv := model.SavedConversation{
		Name:     s.SaveName,
		Messages: model.CloneMessages(s.Messages),
	}
	var index int
	s.Saved, index = model.Upsert(s.Saved, conv)
	s.ConversationName = s.SaveName
	s.ShowSaveDialog = false
	s.SaveName = ""

	env.Logger.Info().Str("name", conv.Name).Int("index", index).Int("messages", len(conv.Messages)).Msg("conversation saved")
	return s.persist(env)
}

func (s *State) handleModelsListed(msg ModelsListedMsg, env Env) tea.Cmd {
	if msg.Err != nil {
		env.Logger.Warn().Err(msg.Err).Msg("listing models failed")
		return s.setStatus("Inference server unavailable: " + msg.Err.Error())
	}

	s.Models = msg.Models
	switch {
	case msg.Loaded != "":
		s.Model = msg.Loaded
	case s.Model == PlaceholderModel && len(s.Models) > 0:
		s.Model = s.Models[0]
	}

	env.Logger.Info().Strs("models", s.Models).Str("active", s.Model).Msg("models listed")
	return nil
}

// persist writes the collection. Failures are logged and shown as a notice.
func (s *State) persist(env Env) tea.Cmd {
	if env.Store == nil {
		return nil
	}
	s.writeSeq++
	s.writeErr = env.Store.Save(s.Saved)
	if err := s.writeErr; err != nil {
		env.Logger.Error().Err(err).Msg("persisting conversations failed")
		return s.setStatus(fmt.Sprintf("Could not save conversations: %v", err))
	}
	return nil
}

// setStatus shows text and schedules its removal.
func (s *State) setStatus(text string) tea.Cmd {
	s.statusSeq++
	s.Status = text
	seq := s.statusSeq
	return tea.Tick(StatusDuration, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
