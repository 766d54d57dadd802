// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import "time"

// TimestampLayout is the clock format stored with every message.
const TimestampLayout = "15:04"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// CHAT MESSAGE
// =============================================================================

// ChatMessage is a single transcript entry. Messages are never edited once
// appended; a transcript only grows or is replaced as a whole.
type ChatMessage struct {
	Content   string `json:"content"`
	IsUser    bool   `json:"is_user"`
	Timestamp string `json:"timestamp"`
}

// NewUserMessage creates a user message stamped with the clock time of now.
func NewUserMessage(content string, now time.Time) ChatMessage {
	return ChatMessage{Content: content, IsUser: true, Timestamp: now.Format(TimestampLayout)}
}

// NewAssistantMessage creates an assistant message stamped with the clock time of now.
func NewAssistantMessage(content string, now time.Time) ChatMessage {
	return ChatMessage{Content: content, IsUser: false, Timestamp: now.Format(TimestampLayout)}
}

// Role reports who authored the message.
func (m ChatMessage) Role() Role {
	if m.IsUser {
		return RoleUser
	}
	return RoleAssistant
}

// =============================================================================
// HISTORY
// =============================================================================

// HistoryMessage is a role-tagged message in the shape the chat completion
// endpoint expects.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History converts a transcript into role-tagged history, preserving order.
func History(messages []ChatMessage) []HistoryMessage {
	history := make([]HistoryMessage, 0, len(messages))
	for _, msg := range messages {
		history = append(history, HistoryMessage{
			Role:    msg.Role().String(),
			Content: msg.Content,
		})
	}
	return history
}

// LastAssistantMessage returns the most recent assistant message.
func LastAssistantMessage(messages []ChatMessage) (ChatMessage, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if !messages[i].IsUser {
			return messages[i], true
		}
	}
	return ChatMessage{}, false
}
