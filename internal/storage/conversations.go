// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/jeranaias/lmchat/internal/model"
	"github.com/jeranaias/lmchat/internal/util"
)

// DefaultPath is the collection file, relative to the working directory.
const DefaultPath = "conversations.json"

// ErrCorrupt is returned by Load when the file exists but cannot be read or
// parsed. The accompanying collection is always empty.
var ErrCorrupt = errors.New("conversation file is unreadable")

// =============================================================================
// CONVERSATION FILE
// =============================================================================

// ConversationFile reads and writes the saved-conversation collection.
type ConversationFile struct {
	path string
	log  zerolog.Logger
}

// NewConversationFile returns a ConversationFile for path. An empty path
// uses DefaultPath.
func NewConversationFile(path string, log zerolog.Logger) *ConversationFile {
	if path == "" {
		path = DefaultPath
	}
	return &ConversationFile{
		path: path,
		log:  log.With().Str("component", "storage").Logger(),
	}
}

// Path returns the file location.
func (f *ConversationFile) Path() string {
	return f.path
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save writes the full collection as a two-space indented JSON array,
// replacing the file atomically. A nil collection is written as [].
func (f *ConversationFile) Save(convs []model.SavedConversation) error {
	out := make([]model.SavedConversation, 0, len(convs))
	for _, c := range convs {
		out = append(out, c.Clone())
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode conversations: %w", err)
	}

	if err := util.AtomicWriteFile(f.path, data, 0644); err != nil {
		f.log.Error().Err(err).Str("path", f.path).Msg("failed to save conversations")
		return fmt.Errorf("save %s: %w", f.path, err)
	}

	f.log.Debug().Str("path", f.path).Int("count", len(out)).Msg("conversations saved")
	return nil
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load reads the full collection. A missing file is an empty collection with
// no error. A file that cannot be read or parsed yields an empty collection
// and an error wrapping ErrCorrupt. The result is never nil.
func (f *ConversationFile) Load() ([]model.SavedConversation, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.SavedConversation{}, nil
		}
		return []model.SavedConversation{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var convs []model.SavedConversation
	if err := json.Unmarshal(data, &convs); err != nil {
		return []model.SavedConversation{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, f.path, err)
	}

	out := make([]model.SavedConversation, 0, len(convs))
	for _, c := range convs {
		out = append(out, c.Clone())
	}

	f.log.Debug().Str("path", f.path).Int("count", len(out)).Msg("conversations loaded")
	return out, nil
}
