// Package llm defines the single-call boundary to external AI providers.
//
// Implementations never report expected failures through error returns;
// every call resolves to a typed Outcome so the orchestrator can make
// retry decisions without inspecting error strings.
package llm

import (
	"context"
	"encoding/json"
	"time"
)

// Client is the capability set a provider backend must implement.
// A Client performs exactly one call per Analyze invocation; retry,
// backoff, and fallback policy live with the caller.
type Client interface {
	// ID identifies the backend in configuration and attempt telemetry.
	ID() string
	// Model returns the configured model name for this backend.
	Model() string
	// Analyze sends one prompt to the backend and returns a typed outcome.
	Analyze(ctx context.Context, req Request) Outcome
}

// Request captures the inputs for a single provider call.
type Request struct {
	Prompt    string
	Model     string
	MaxTokens int
}

// OutcomeKind discriminates provider call results.
type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeRateLimited OutcomeKind = "rate_limited"
	OutcomeTransient   OutcomeKind = "transient"
	OutcomeFatal       OutcomeKind = "fatal"
)

// Outcome is the discriminated result of one provider call.
// Exactly one of Raw, RetryAfter, or Cause is meaningful depending on Kind.
type Outcome struct {
	Kind       OutcomeKind
	Raw        json.RawMessage // Kind == OutcomeSuccess
	RetryAfter time.Duration   // Kind == OutcomeRateLimited; server-specified wait
	Cause      error           // Kind == OutcomeTransient or OutcomeFatal
}

// Success wraps a raw provider payload.
func Success(raw json.RawMessage) Outcome {
	return Outcome{Kind: OutcomeSuccess, Raw: raw}
}

// RateLimited reports an HTTP-429-equivalent with the server-specified wait.
func RateLimited(retryAfter time.Duration) Outcome {
	return Outcome{Kind: OutcomeRateLimited, RetryAfter: retryAfter}
}

// Transient reports a retriable failure such as a network error or 5xx.
func Transient(cause error) Outcome {
	return Outcome{Kind: OutcomeTransient, Cause: cause}
}

// Fatal reports a non-retriable failure such as auth or bad-request errors.
func Fatal(cause error) Outcome {
	return Outcome{Kind: OutcomeFatal, Cause: cause}
}

// Retriable reports whether the outcome may be retried against the same provider.
func (o Outcome) Retriable() bool {
	return o.Kind == OutcomeTransient || o.Kind == OutcomeRateLimited
}
