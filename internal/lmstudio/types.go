// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lmstudio

import (
	"encoding/json"

	"github.com/jeranaias/lmchat/internal/model"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CompletionsRequest is the body for POST /v1/chat/completions.
// Every field is always sent; MaxTokens -1 asks for an unbounded reply.
type CompletionsRequest struct {
	Model       string                 `json:"model"`
	Messages    []model.HistoryMessage `json:"messages"`
	Temperature float64                `json:"temperature"`
	MaxTokens   int                    `json:"max_tokens"`
	Stream      bool                   `json:"stream"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CompletionsResponse is the body returned by /v1/chat/completions.
type CompletionsResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice is one generated alternative.
type ChatChoice struct {
	Message model.HistoryMessage `json:"message"`
}

// Content returns the first choice's text, or "" when there are no choices.
func (r *CompletionsResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// ModelsResponse is the body returned by GET /v1/models.
type ModelsResponse struct {
	Data []ModelEntry `json:"data"`
}

// ModelEntry describes one model known to the server.
type ModelEntry struct {
	ID string `json:"id"`
}

// IDs returns the model identifiers in server order.
func (r *ModelsResponse) IDs() []string {
	ids := make([]string, 0, len(r.Data))
	for _, m := range r.Data {
		ids = append(ids, m.ID)
	}
	return ids
}

// LoadedModelResponse is the body returned by GET /v1/models/loaded.
type LoadedModelResponse struct {
	Model string `json:"model,omitempty"`
}

// apiErrorResponse covers both error shapes seen in the wild:
// {"error": "text"} and {"error": {"message": "text"}}.
type apiErrorResponse struct {
	Error json.RawMessage `json:"error"`
}

// message extracts the human-readable error text, if any.
func (r apiErrorResponse) message() string {
	if len(r.Error) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(r.Error, &text); err == nil {
		return text
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Error, &obj); err == nil {
		return obj.Message
	}
	return ""
}
