// Package anthropic implements llm.Client against the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resume-pipeline/internal/llm"
)

const (
	defaultEndpoint  = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 4096
	defaultRetryWait = 5 * time.Second
)

// Config holds the per-backend settings from the provider list.
type Config struct {
	ID        string
	APIKey    string
	Model     string
	Endpoint  string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls the Anthropic Messages API once per Analyze invocation.
type Client struct {
	id         string
	apiKey     string
	model      string
	endpoint   string
	maxTokens  int
	httpClient *http.Client
}

// New constructs an Anthropic-backed provider client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("anthropic: model is required")
	}
	id := strings.TrimSpace(cfg.ID)
	if id == "" {
		id = "anthropic"
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		id:        id,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		endpoint:  endpoint,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// ID implements llm.Client.
func (c *Client) ID() string { return c.id }

// Model implements llm.Client.
func (c *Client) Model() string { return c.model }

type messageRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	Messages  []messageContent `json:"messages"`
}

type messageContent struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze implements llm.Client with a single HTTP call mapped to a typed outcome.
func (c *Client) Analyze(ctx context.Context, req llm.Request) llm.Outcome {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	payload, err := json.Marshal(messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []messageContent{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return llm.Fatal(fmt.Errorf("anthropic: marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.Fatal(fmt.Errorf("anthropic: build request: %w", err))
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return llm.Transient(fmt.Errorf("anthropic: request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Transient(fmt.Errorf("anthropic: read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return llm.RateLimited(retryAfterFromHeader(resp.Header, defaultRetryWait))
	case resp.StatusCode >= 500:
		return llm.Transient(fmt.Errorf("anthropic: http status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return llm.Fatal(fmt.Errorf("anthropic: http status %d: %s", resp.StatusCode, truncate(raw, 256)))
	}

	var parsed messageResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return llm.Transient(fmt.Errorf("anthropic: response parse: %w", err))
	}
	if parsed.Error != nil {
		return llm.Fatal(fmt.Errorf("anthropic: %s (%s)", parsed.Error.Message, parsed.Error.Type))
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	content := strings.TrimSpace(text.String())
	if content == "" {
		return llm.Transient(fmt.Errorf("anthropic: response empty content"))
	}
	return llm.Success(json.RawMessage(content))
}

func retryAfterFromHeader(h http.Header, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(h.Get("Retry-After"))
	if raw == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(raw); err == nil {
		if wait := time.Until(t); wait > 0 {
			return wait
		}
	}
	return fallback
}

func truncate(raw []byte, n int) string {
	s := string(raw)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
