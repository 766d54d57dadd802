// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lmstudio provides the HTTP client for a local OpenAI-compatible
// inference server such as LM Studio.
//
// Requests are blocking and non-streaming: a chat completion is awaited as
// one unit, bounded by a single long timeout so that a model still loading
// into memory does not fail the call.
//
// # Key Types
//
//   - Client: HTTP client for the inference server
//   - ClientConfig: Endpoint and request parameters
//   - ClientError: Categorized failure (connection, timeout, status, payload)
//
// # Usage
//
//	client := lmstudio.NewClient(lmstudio.DefaultConfig(), zerolog.Nop())
//	reply, err := client.SendMessage(ctx, "local-model", []model.HistoryMessage{
//	    {Role: "user", Content: "Hello"},
//	})
package lmstudio
