// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import "slices"

// =============================================================================
// SAVED CONVERSATION
// =============================================================================

// SavedConversation is a named, persisted snapshot of a transcript.
// Name is the unique key within the saved collection.
type SavedConversation struct {
	Name     string        `json:"name"`
	Messages []ChatMessage `json:"messages"`
}

// Clone returns a copy whose message slice does not alias the receiver.
func (c SavedConversation) Clone() SavedConversation {
	return SavedConversation{
		Name:     c.Name,
		Messages: CloneMessages(c.Messages),
	}
}

// CloneMessages copies a transcript. The result is never nil.
func CloneMessages(messages []ChatMessage) []ChatMessage {
	if len(messages) == 0 {
		return []ChatMessage{}
	}
	return slices.Clone(messages)
}

// =============================================================================
// COLLECTION OPERATIONS
// =============================================================================

// IndexOf returns the position of the conversation named name, or -1.
func IndexOf(list []SavedConversation, name string) int {
	for i, conv := range list {
		if conv.Name == name {
			return i
		}
	}
	return -1
}

// Upsert inserts conv, or replaces the entry with the same name in place.
// It returns the updated collection and the index conv now occupies.
func Upsert(list []SavedConversation, conv SavedConversation) ([]SavedConversation, int) {
	if i := IndexOf(list, conv.Name); i >= 0 {
		list[i] = conv
		return list, i
	}
	return append(list, conv), len(list)
}

// Remove deletes the entry at index. It reports false and returns list
// unchanged when index is out of range.
func Remove(list []SavedConversation, index int) ([]SavedConversation, bool) {
	if index < 0 || index >= len(list) {
		return list, false
	}
	return slices.Delete(list, index, index+1), true
}

// Names returns the conversation names in display order.
func Names(list []SavedConversation) []string {
	names := make([]string, len(list))
	for i, conv := range list {
		names[i] = conv.Name
	}
	return names
}
