// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the saved-conversation collection.
//
// The whole collection lives in a single JSON array file, rewritten in full
// on every change and read in full at startup:
//
//	[
//	  {
//	    "name": "Trip planning",
//	    "messages": [
//	      {"content": "Hi", "is_user": true, "timestamp": "14:03"}
//	    ]
//	  }
//	]
//
// # Key Types
//
//   - ConversationFile: Load/Save of the collection at one path
//
// # Usage
//
//	file := storage.NewConversationFile("conversations.json", log)
//	saved, err := file.Load()
//	if errors.Is(err, storage.ErrCorrupt) {
//	    // start with an empty collection
//	}
//	err = file.Save(saved)
//
// Watch reports edits made to the file by other processes.
package storage
