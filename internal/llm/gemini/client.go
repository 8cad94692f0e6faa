// Package gemini implements llm.Client on top of the Google GenAI SDK.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-pipeline/internal/llm"
)

const defaultRetryWait = 5 * time.Second

// Config holds the per-backend settings from the provider list.
type Config struct {
	ID        string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls the Gemini API once per Analyze invocation.
type Client struct {
	id        string
	model     string
	maxTokens int
	timeout   time.Duration
	genai     *genai.Client
}

// New constructs a Gemini-backed provider client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("gemini: model is required")
	}
	id := strings.TrimSpace(cfg.ID)
	if id == "" {
		id = "gemini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Client{
		id:        id,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   timeout,
		genai:     client,
	}, nil
}

// ID implements llm.Client.
func (c *Client) ID() string { return c.id }

// Model implements llm.Client.
func (c *Client) Model() string { return c.model }

// Analyze implements llm.Client with a single GenerateContent call mapped to
// a typed outcome.
func (c *Client) Analyze(ctx context.Context, req llm.Request) llm.Outcome {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if maxTokens := pickMaxTokens(req.MaxTokens, c.maxTokens); maxTokens > 0 {
		genCfg.MaxOutputTokens = int32(maxTokens)
	}

	resp, err := c.genai.Models.GenerateContent(callCtx, model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return classifyError(err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return llm.Transient(fmt.Errorf("gemini: response empty content"))
	}
	return llm.Success(json.RawMessage(content))
}

func classifyError(err error) llm.Outcome {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return llm.RateLimited(defaultRetryWait)
		case apiErr.Code >= 500:
			return llm.Transient(fmt.Errorf("gemini: http status %d: %s", apiErr.Code, apiErr.Message))
		default:
			return llm.Fatal(fmt.Errorf("gemini: http status %d: %s", apiErr.Code, apiErr.Message))
		}
	}
	return llm.Transient(fmt.Errorf("gemini: request: %w", err))
}

func pickMaxTokens(requested, configured int) int {
	if requested > 0 {
		return requested
	}
	return configured
}
