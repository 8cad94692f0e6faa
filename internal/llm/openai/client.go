// Package openai implements llm.Client against the OpenAI Chat Completions API.
package openai

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

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

const defaultRetryAfter = 5 * time.Second

// Config holds the per-backend settings from the provider list.
type Config struct {
	ID        string
	APIKey    string
	Model     string
	Endpoint  string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls OpenAI once per Analyze invocation.
type Client struct {
	id         string
	apiKey     string
	model      string
	endpoint   string
	maxTokens  int
	httpClient *http.Client
}

// New constructs an OpenAI-backed provider client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	id := strings.TrimSpace(cfg.ID)
	if id == "" {
		id = "openai"
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
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
		maxTokens: cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// ID implements llm.Client.
func (c *Client) ID() string { return c.id }

// Model implements llm.Client.
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Analyze implements llm.Client. It performs exactly one HTTP call and maps
// the response to a typed outcome; it never retries.
func (c *Client) Analyze(ctx context.Context, req llm.Request) llm.Outcome {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}

	temp := float32(0)
	body := chatRequest{
		Model:          model,
		Messages:       []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature:    &temp,
		MaxTokens:      pickMaxTokens(req.MaxTokens, c.maxTokens),
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return llm.Fatal(fmt.Errorf("openai: marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.Fatal(fmt.Errorf("openai: build request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return llm.Transient(fmt.Errorf("openai: request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Transient(fmt.Errorf("openai: read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return llm.RateLimited(retryAfterFromHeader(resp.Header, defaultRetryAfter))
	case resp.StatusCode >= 500:
		return llm.Transient(fmt.Errorf("openai: http status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return llm.Fatal(fmt.Errorf("openai: http status %d: %s", resp.StatusCode, truncate(raw, 256)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return llm.Transient(fmt.Errorf("openai: response parse: %w", err))
	}
	if parsed.Error != nil {
		return llm.Fatal(fmt.Errorf("openai: %s (%s)", parsed.Error.Message, parsed.Error.Type))
	}
	if len(parsed.Choices) == 0 {
		return llm.Transient(fmt.Errorf("openai: response missing choices"))
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return llm.Transient(fmt.Errorf("openai: response empty content"))
	}
	return llm.Success(json.RawMessage(content))
}

func pickMaxTokens(requested, configured int) int {
	if requested > 0 {
		return requested
	}
	return configured
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
