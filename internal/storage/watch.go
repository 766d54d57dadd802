// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// changeOps are the operations that can alter the file's content.
const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watch signals on the returned channel whenever the file is written,
// created, renamed or removed. Signals are coalesced: a receiver that falls
// behind sees one pending signal, never a backlog. The channel is closed
// once ctx is done.
//
// The parent directory is watched rather than the file, since an atomic
// save replaces the file's inode.
func (f *ConversationFile) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	name := filepath.Base(f.path)
	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name || event.Op&changeOps == 0 {
					continue
				}
				f.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("conversation file changed")
				select {
				case changes <- struct{}{}:
				default:
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.log.Warn().Err(err).Str("dir", dir).Msg("watcher error")
			}
		}
	}()

	f.log.Debug().Str("dir", dir).Str("file", name).Msg("watching conversation file")
	return changes, nil
}
