// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/jeranaias/lmchat/internal/model"

// =============================================================================
// INPUT MESSAGES
// =============================================================================

// InputChangedMsg replaces the input buffer.
type InputChangedMsg struct {
	Value string
}

// SendMsg sends the input buffer as a user message.
type SendMsg struct{}

// MessageReceivedMsg is the outcome of a send.
type MessageReceivedMsg struct {
	Content string
	Err     error
}

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// NewConversationMsg starts an empty, unsaved conversation.
type NewConversationMsg struct{}

// LoadConversationMsg opens the saved conversation at Index.
type LoadConversationMsg struct {
	Index int
}

// DeleteConversationMsg removes the saved conversation at Index.
type DeleteConversationMsg struct {
	Index int
}

// ClearChatMsg empties the transcript.
type ClearChatMsg struct{}

// SavedReloadedMsg carries the collection re-read after an outside change.
// Seq is the write count the watch was started under.
type SavedReloadedMsg struct {
	Saved []model.SavedConversation
	Err   error
	Seq   uint64
}

// =============================================================================
// SAVE DIALOG MESSAGES
// =============================================================================

// ShowSaveDialogMsg opens the save dialog.
type ShowSaveDialogMsg struct{}

// HideSaveDialogMsg closes the save dialog without saving.
type HideSaveDialogMsg struct{}

// SaveNameChangedMsg replaces the save dialog's name.
type SaveNameChangedMsg struct {
	Value string
}

// ConfirmSaveMsg saves the transcript under the dialog's name.
type ConfirmSaveMsg struct{}

// =============================================================================
// MODEL MESSAGES
// =============================================================================

// ModelsListedMsg reports the server's models.
type ModelsListedMsg struct {
	Models []string
	Loaded string
	Err    error
}

// CycleModelMsg switches to the next listed model.
type CycleModelMsg struct{}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusMsg shows a transient notice.
type StatusMsg struct {
	Text string
}

// ClearStatusMsg hides the notice it was scheduled for. A newer notice
// is left in place.
type ClearStatusMsg struct {
	Seq int
}
