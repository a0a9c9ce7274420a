// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm calls the generative text service. The service speaks the
// OpenAI-compatible chat completions protocol; each call carries a single
// user-role message and returns the text of the first choice.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/argument-engine/pkg/types"
)

// Completer produces generated text for a prompt. Stages depend on this
// interface so tests can supply a mock.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ChatClient calls a chat completions endpoint. It holds the credential
// and is built once at startup from LLMConfig.
type ChatClient struct {
	BaseURL   string
	APIKey    string
	Model     string
	UserAgent string
	Client    *http.Client
}

// NewChatClient builds a ChatClient from cfg. The HTTP client timeout is
// cfg.Timeout so a hung connection surfaces as an upstream failure.
func NewChatClient(cfg types.LLMConfig) *ChatClient {
	return &ChatClient{
		BaseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		UserAgent: cfg.UserAgent,
		Client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the completions response we read.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// APIError reports a non-success HTTP status from the service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat API returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Unwrap classifies every API error as an upstream failure.
func (e *APIError) Unwrap() error { return types.ErrUpstreamUnavailable }

// Complete sends prompt as a single user message and returns the first
// choice's content verbatim.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat API: %w: %w", types.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decoding chat response: %w: %w", types.ErrUpstreamUnavailable, err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices: %w", types.ErrUpstreamUnavailable)
	}
	return cr.Choices[0].Message.Content, nil
}

// IsTransient reports whether err is worth retrying: a transport failure,
// a rate limit, or a server-side error. Cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return errors.Is(err, types.ErrUpstreamUnavailable)
}
