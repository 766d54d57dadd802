// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lmchat/internal/model"
)

// listTimeout bounds the model listing round trips.
const listTimeout = 10 * time.Second

// SendCmd creates a command that performs one completion request.
func SendCmd(sender Sender, timeout time.Duration, modelName string, history []model.HistoryMessage) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		content, err := sender.SendMessage(ctx, modelName, history)
		return MessageReceivedMsg{Content: content, Err: err}
	}
}

// ListModelsCmd creates a command that lists the server's models and the
// one currently loaded. A failure to report the loaded model is not an
// error; only the listing is required.
func ListModelsCmd(lister ModelLister) tea.Cmd {
	return func() tea.Msg {
		if lister == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()

		models, err := lister.ListModels(ctx)
		if err != nil {
			return ModelsListedMsg{Err: err}
		}
		loaded, _ := lister.LoadedModel(ctx)
		return ModelsListedMsg{Models: models, Loaded: loaded}
	}
}

// WatchCmd creates a command that waits for the next change signal and
// re-reads the collection, tagging the result with seq (the state's write
// count when the command was issued). It yields nil once changes is closed;
// callers re-issue it after every SavedReloadedMsg.
func WatchCmd(changes <-chan struct{}, loader Loader, seq uint64) tea.Cmd {
	if changes == nil || loader == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		saved, err := loader.Load()
		return SavedReloadedMsg{Saved: saved, Err: err, Seq: seq}
	}
}
