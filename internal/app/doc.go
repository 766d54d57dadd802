// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app holds the chat application state and the update function that
// drives it.
//
// State is owned by the Bubble Tea event loop. Update applies one message to
// completion and may return a single command; long-running work such as an
// inference request runs inside that command and re-enters as a new message.
//
// # Key Types
//
//   - State: Transcript, input buffer, saved collection and dialog state
//   - Env: Collaborators used by Update (sender, store, clock, logger)
//   - Sender, Store, ModelLister, Loader: Narrow interfaces over I/O
//
// # Usage
//
//	state := app.New(saved, app.Options{Model: "local-model"})
//	cmd := state.Update(app.InputChangedMsg{Value: "Hello"}, env)
//	cmd = state.Update(app.SendMsg{}, env)
package app
