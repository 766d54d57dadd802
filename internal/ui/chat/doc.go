// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea model for the lmchat screen.

The screen has a sidebar of saved conversations, a chat area (header,
scrollable transcript, input bar) and a save dialog drawn over the layout
while it is open.

# Key Components

## Model (model.go)

The Model owns only widget plumbing: the text inputs, the transcript
viewport, the pending spinner, pane focus and the sidebar cursor. All
application state lives in *app.State and changes only through
app.State.Update.

## Update Loop (update.go)

Keys are mapped to app messages. Results of commands (a reply, a model
listing, a reload of the saved file) come back as app messages too.

## View Rendering (view.go)

Each pane is a pure function of the state, the layout and the theme.

# Usage

	state := app.New(saved, app.Options{Model: cfg.Server.Model})
	m := chat.New(chat.Options{
	    Theme: styles.NewTheme(styles.ModeAuto),
	    State: state,
	    Env:   app.Env{Sender: client, Store: file},
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package chat
