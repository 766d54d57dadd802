// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lmstudio

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/lmchat/internal/model"
	"github.com/jeranaias/lmchat/internal/util"
)

// Endpoints and request defaults.
const (
	pathModels      = "/v1/models"
	pathLoadedModel = "/v1/models/loaded"
	pathCompletions = "/v1/chat/completions"
	headerRequestID = "X-Request-ID"
	maxErrorSnippet = 200
	defaultTimeout  = 20 * time.Minute
	defaultBaseURL  = "http://localhost:1234"
	defaultTemp     = 0.7
	unboundedTokens = -1
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the inference client.
type ClientConfig struct {
	// BaseURL is the server root (default: http://localhost:1234)
	BaseURL string

	// Timeout bounds every request, including completions (default: 20m)
	Timeout time.Duration

	// Temperature is sent with every completion request (default: 0.7)
	Temperature float64

	// MaxTokens is sent with every completion request; -1 means unbounded
	MaxTokens int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		BaseURL:     defaultBaseURL,
		Timeout:     defaultTimeout,
		Temperature: defaultTemp,
		MaxTokens:   unboundedTokens,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to an OpenAI-compatible inference server.
//
// The Client is safe for concurrent use.
type Client struct {
	config ClientConfig
	http   *resty.Client
	log    zerolog.Logger
}

// NewClient creates a client. Zero-valued fields in cfg fall back to
// DefaultConfig, except MaxTokens where 0 is a legitimate value.
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		config: cfg,
		http:   httpClient,
		log:    log.With().Str("component", "lmstudio").Logger(),
	}
}

// Config returns the effective client configuration.
func (c *Client) Config() ClientConfig {
	return c.config
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// MODEL OPERATIONS
// =============================================================================

// ListModels returns the identifiers of every model the server knows about.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var out ModelsResponse
	if err := c.getJSON(ctx, pathModels, &out); err != nil {
		return nil, err
	}
	return out.IDs(), nil
}

// LoadedModel returns the model currently loaded by the server. A server
// that answers without naming one yields "" and no error.
func (c *Client) LoadedModel(ctx context.Context) (string, error) {
	var out LoadedModelResponse
	if err := c.getJSON(ctx, pathLoadedModel, &out); err != nil {
		return "", err
	}
	return out.Model, nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SendMessage posts the full history as one non-streaming completion request
// and returns the first choice's content. A response with no choices yields
// "" and no error.
func (c *Client) SendMessage(ctx context.Context, modelName string, history []model.HistoryMessage) (string, error) {
	if history == nil {
		history = []model.HistoryMessage{}
	}
	body := CompletionsRequest{
		Model:       modelName,
		Messages:    history,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Stream:      false,
	}

	raw, err := c.do(ctx, resty.MethodPost, pathCompletions, body)
	if err != nil {
		return "", err
	}

	var out CompletionsResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode completion", Cause: err}
	}
	return out.Content(), nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	raw, err := c.do(ctx, resty.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode " + path, Cause: err}
	}
	return nil
}

// do performs one request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	requestID := uuid.NewString()
	req := c.http.R().
		SetContext(ctx).
		SetHeader(headerRequestID, requestID)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("request_id", requestID).
			Str("method", method).
			Str("path", path).
			Dur("elapsed", time.Since(start)).
			Msg("request failed")
		return nil, transportError(err)
	}

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("request completed")

	if !resp.IsSuccess() {
		return nil, statusError(resp.StatusCode(), resp.Status(), resp.Body())
	}
	return resp.Body(), nil
}

// statusError builds the error for a non-2xx response, preferring the
// server's own message over the raw body.
func statusError(code int, status string, body []byte) *ClientError {
	detail := ""
	var apiErr apiErrorResponse
	if json.Unmarshal(body, &apiErr) == nil {
		detail = apiErr.message()
	}
	if detail == "" {
		detail = strings.ToValidUTF8(strings.TrimSpace(string(body)), "\uFFFD")
		detail = util.TruncateWidth(detail, maxErrorSnippet)
	}
	if status == "" {
		status = fmt.Sprintf("%d", code)
	}

	msg := "server returned " + status
	if detail != "" {
		msg += ": " + detail
	}
	return &ClientError{Type: ErrTypeStatus, Message: msg, StatusCode: code}
}
