// Package aigateway talks to the Anthropic Messages API on behalf of the
// assistant flows. Remote failures never escape as errors: the gateway
// degrades to a fixed fallback sentence and lets callers decide what to do
// with it.
package aigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/aiplanner/backend/domain"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1000
	apiVersion       = "2023-06-01"

	// FallbackText stands in for a genuine reply whenever the remote call
	// fails for any reason.
	FallbackText = "AI service temporarily unavailable. Please try again later."
)

// KeySource supplies the current API key; the key is user-configurable at
// runtime through the settings endpoint.
type KeySource interface {
	APIKey() string
}

// Config holds the gateway's fixed request parameters.
type Config struct {
	BaseURL    string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

// Reply is a completed gateway call. Fallback marks the surrogate sentence
// produced after a transport or parsing failure; callers treat the text as a
// reply either way, but skip structured decoding when it is set.
type Reply struct {
	Text     string
	Fallback bool
}

// Gateway issues single-prompt completions against a fixed model and
// endpoint. At most one request is in flight at a time; overlapping calls
// are rejected with domain.ErrAssistantBusy.
type Gateway struct {
	cfg      Config
	keys     KeySource
	logger   *zap.Logger
	inflight atomic.Bool
}

// New builds a Gateway, filling unset config fields with the fixed defaults.
func New(cfg Config, keys KeySource, logger *zap.Logger) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{cfg: cfg, keys: keys, logger: logger}
}

// messagesRequest is the request body for the Messages API.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the subset of the Messages API response we consume.
type messagesResponse struct {
	Content []contentItem `json:"content"`
	Error   *apiError     `json:"error,omitempty"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Loading reports whether a completion is currently in flight.
func (g *Gateway) Loading() bool {
	return g.inflight.Load()
}

// Complete sends one user message built from contextText and prompt and
// returns the first text segment of the reply. A missing API key or an
// in-flight request reject the call before any network activity; every other
// failure is logged and converted into the fallback reply.
func (g *Gateway) Complete(ctx context.Context, prompt, contextText string) (Reply, error) {
	key := ""
	if g.keys != nil {
		key = g.keys.APIKey()
	}
	if key == "" {
		return Reply{}, domain.ErrAPIKeyMissing
	}

	if !g.inflight.CompareAndSwap(false, true) {
		return Reply{}, domain.ErrAssistantBusy
	}
	defer g.inflight.Store(false)

	text, err := g.send(ctx, key, contextText+"\n\nUser request: "+prompt)
	if err != nil {
		g.logger.Error("completion failed", zap.Error(err))
		return Reply{Text: FallbackText, Fallback: true}, nil
	}
	return Reply{Text: text}, nil
}

func (g *Gateway) send(ctx context.Context, key, content string) (string, error) {
	data, err := json.Marshal(messagesRequest{
		Model:     g.cfg.Model,
		MaxTokens: g.cfg.MaxTokens,
		Messages:  []message{{Role: domain.RoleUser, Content: content}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/v1/messages", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", key)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp messagesResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("%s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	for _, item := range apiResp.Content {
		if item.Type == "text" {
			return item.Text, nil
		}
	}
	return "", fmt.Errorf("response contains no text segment")
}
