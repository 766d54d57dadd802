// lmchat - A terminal chat client for a local LM Studio server.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/lmchat/internal/app"
	"github.com/jeranaias/lmchat/internal/config"
	"github.com/jeranaias/lmchat/internal/lmstudio"
	"github.com/jeranaias/lmchat/internal/logger"
	"github.com/jeranaias/lmchat/internal/storage"
	"github.com/jeranaias/lmchat/internal/ui/chat"
	"github.com/jeranaias/lmchat/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running lmchat: %v\n", err)
		os.Exit(1)
	}
}

// errNoTerminal is returned when stdout is not attached to a terminal.
var errNoTerminal = errors.New("lmchat needs an interactive terminal")

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	// Config problems are never fatal: Load hands back defaults with the error.
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Path: cfg.Log.Path})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		log = logger.Nop()
	}
	defer log.Close()

	log.LogStartup(cfg.Server.BaseURL, cfg.Server.Model, cfg.Storage.Path)
	defer log.LogShutdown()
	zl := log.Zerolog()
	zl.Debug().Str("version", Version).Str("commit", GitCommit).Str("built", BuildDate).Msg("build info")

	// Persistence
	file := storage.NewConversationFile(cfg.Storage.Path, zl)
	saved, err := file.Load()
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			zl.Warn().Err(err).Msg("saved conversations unreadable, starting empty")
		} else {
			zl.Warn().Err(err).Msg("failed to load saved conversations")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan struct{}
	if cfg.Storage.Watch {
		changes, err = file.Watch(ctx)
		if err != nil {
			zl.Warn().Err(err).Msg("conversation file watch disabled")
		}
	}

	// Inference
	client := lmstudio.NewClient(lmstudio.ClientConfig{
		BaseURL:     cfg.Server.BaseURL,
		Timeout:     cfg.Server.Timeout(),
		Temperature: cfg.Server.Temperature,
		MaxTokens:   cfg.Server.MaxTokens,
	}, zl)

	state := app.New(saved, app.Options{
		DefaultName: cfg.UI.DefaultName,
		Model:       cfg.Server.Model,
	})

	m := chat.New(chat.Options{
		Theme: styles.NewTheme(styles.ParseMode(cfg.UI.Theme)),
		State: state,
		Env: app.Env{
			Sender:  client,
			Store:   file,
			Timeout: cfg.Server.Timeout(),
			Logger:  log.Component("app"),
		},
		Lister:       client,
		Changes:      changes,
		Loader:       file,
		Markdown:     cfg.UI.Markdown,
		SidebarWidth: cfg.UI.SidebarWidth,
		MinWidth:     cfg.UI.MinWidth,
		MinHeight:    cfg.UI.MinHeight,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
