// Package config defines service configuration and its loading order.
package config

import "os"

// Provider configures one LLM backend. The slice order in Config.Providers
// is the fallback preference order, primary first.
type Provider struct {
	// ID selects the client implementation: openai, anthropic, or gemini.
	ID        string `koanf:"id"`
	APIKey    string `koanf:"api_key"`
	Model     string `koanf:"model"`
	Endpoint  string `koanf:"endpoint"`
	MaxTokens int    `koanf:"max_tokens"`
}

// Config contains process configuration.
type Config struct {
	// Env selects runtime behavior: dev or prod.
	Env string `koanf:"env"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL enables PostgreSQL persistence; empty selects in-memory
	// stores.
	DatabaseURL string `koanf:"database_url"`

	CORSAllowOrigins []string `koanf:"cors_allow_origins"`

	// Providers is the ordered LLM fallback chain.
	Providers []Provider `koanf:"providers"`

	MaxRetries             int `koanf:"max_retries"`
	BaseDelayMs            int `koanf:"base_delay_ms"`
	CallTimeoutSeconds     int `koanf:"call_timeout_seconds"`
	PipelineTimeoutSeconds int `koanf:"pipeline_timeout_seconds"`

	// MinContentWords rejects resumes too short to analyze.
	MinContentWords int `koanf:"min_content_words"`

	// MaxUploadBytes caps the resume upload size.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// CatalogPath points at a course catalog JSON file; empty selects the
	// embedded default catalog.
	CatalogPath string `koanf:"catalog_path"`

	// RecommendLimit caps courses returned per analysis.
	RecommendLimit int `koanf:"recommend_limit"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Env:                    "dev",
		Addr:                   ":8080",
		CORSAllowOrigins:       []string{"http://localhost:3000"},
		MaxRetries:             3,
		BaseDelayMs:            1000,
		CallTimeoutSeconds:     30,
		PipelineTimeoutSeconds: 120,
		MinContentWords:        50,
		MaxUploadBytes:         5 << 20,
		RecommendLimit:         10,
	}
}

// defaultProviders derives a fallback chain from conventional API key env
// vars when no providers were configured explicitly.
func defaultProviders() []Provider {
	var providers []Provider
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		providers = append(providers, Provider{ID: "openai", APIKey: key, Model: "gpt-4o-mini"})
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		providers = append(providers, Provider{ID: "anthropic", APIKey: key, Model: "claude-sonnet-4-20250514"})
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		providers = append(providers, Provider{ID: "gemini", APIKey: key, Model: "gemini-2.0-flash"})
	}
	return providers
}
