// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the domain types shared by the inference client,
// the persistence layer and the application state.
//
// # Key Types
//
//   - ChatMessage: One transcript entry (content, author flag, clock time)
//   - SavedConversation: A named snapshot of a transcript
//   - HistoryMessage: Role-tagged message as sent to the inference server
//   - Role: Message author (user, assistant)
//
// # Usage
//
// Build a transcript and the history sent with the next request:
//
//	msgs := []model.ChatMessage{model.NewUserMessage("Hello!", time.Now())}
//	history := model.History(msgs)
//
// Save it by name into the saved collection:
//
//	saved, idx := model.Upsert(saved, model.SavedConversation{Name: "Greeting", Messages: msgs})
package model
