package analyses

import (
	"context"
	"errors"
	"time"

	"resume-pipeline/internal/llm"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/telemetry"
)

const (
	defaultMaxRetries      = 3
	defaultBaseDelay       = time.Second
	defaultPipelineTimeout = 2 * time.Minute
)

// OrchestratorConfig tunes retry and deadline behavior.
type OrchestratorConfig struct {
	// MaxRetries is the per-provider attempt budget (default 3).
	MaxRetries int
	// BaseDelay is the exponential backoff base (default 1s). The delay
	// before retry n is BaseDelay * 2^(n-1).
	BaseDelay time.Duration
	// PipelineTimeout bounds one whole orchestration run (default 2m).
	PipelineTimeout time.Duration
}

// Orchestrator drives provider selection, retry/backoff, fallback ordering,
// and response validation. It holds no per-request state; one instance is
// shared across concurrent analyses.
type Orchestrator struct {
	providers       []llm.Client
	maxRetries      int
	baseDelay       time.Duration
	pipelineTimeout time.Duration

	// sleep is swapped out in tests to observe delays without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator builds an orchestrator over an ordered provider
// preference list (primary first).
func NewOrchestrator(providers []llm.Client, cfg OrchestratorConfig) *Orchestrator {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.PipelineTimeout <= 0 {
		cfg.PipelineTimeout = defaultPipelineTimeout
	}
	return &Orchestrator{
		providers:       providers,
		maxRetries:      cfg.MaxRetries,
		baseDelay:       cfg.BaseDelay,
		pipelineTimeout: cfg.PipelineTimeout,
		sleep:           sleepCtx,
	}
}

// Analyze runs the provider loop for one request and returns the validated
// result plus the ordered attempt history. Provider order is the sole
// tie-break; there is no randomization.
func (o *Orchestrator) Analyze(ctx context.Context, req AnalysisRequest) (ResumeAnalysisResult, []ProviderAttempt, error) {
	if len(o.providers) == 0 {
		return ResumeAnalysisResult{}, nil, &ExhaustedError{}
	}

	runCtx, cancel := context.WithTimeout(ctx, o.pipelineTimeout)
	defer cancel()

	prompt := llm.BuildAnalysisPrompt(req.Text.Text, req.Text.SectionNames(), req.JobRole, string(req.AnalysisType))
	attempts := make([]ProviderAttempt, 0, len(o.providers))

providerLoop:
	for _, provider := range o.providers {
		for attempt := 1; attempt <= o.maxRetries; attempt++ {
			if err := runCtx.Err(); err != nil {
				return ResumeAnalysisResult{}, attempts, o.deadlineError(ctx, attempts, err)
			}

			started := time.Now().UTC()
			outcome := provider.Analyze(runCtx, llm.Request{Prompt: prompt, Model: provider.Model()})
			attempts = append(attempts, recordAttempt(provider, attempt, started, outcome))

			switch outcome.Kind {
			case llm.OutcomeSuccess:
				result, err := ParseResult(outcome.Raw, req.AnalysisType)
				if err != nil {
					return ResumeAnalysisResult{}, attempts, &SchemaError{Provider: provider.ID(), Cause: err}
				}
				postProcess(&result)
				fillEstimatedReading(&result, req)
				return result, attempts, nil

			case llm.OutcomeFatal:
				// Fatal outcomes never retry against the same provider.
				continue providerLoop

			case llm.OutcomeRateLimited, llm.OutcomeTransient:
				if attempt == o.maxRetries {
					continue providerLoop
				}
				delay := o.baseDelay << (attempt - 1)
				if outcome.Kind == llm.OutcomeRateLimited {
					// Server-authoritative wait overrides the backoff schedule.
					delay = outcome.RetryAfter
				}
				if err := o.sleep(runCtx, delay); err != nil {
					return ResumeAnalysisResult{}, attempts, o.deadlineError(ctx, attempts, err)
				}
			}
		}
	}

	return ResumeAnalysisResult{}, attempts, &ExhaustedError{Attempts: attempts}
}

// deadlineError distinguishes caller cancellation from the pipeline
// deadline: deadline expiry counts as exhaustion, cancellation propagates.
func (o *Orchestrator) deadlineError(parent context.Context, attempts []ProviderAttempt, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ExhaustedError{Attempts: attempts}
	}
	return err
}

func recordAttempt(provider llm.Client, attempt int, started time.Time, outcome llm.Outcome) ProviderAttempt {
	rec := ProviderAttempt{
		ProviderID: provider.ID(),
		Model:      provider.Model(),
		Attempt:    attempt,
		StartedAt:  started,
		Outcome:    outcome.Kind,
	}
	if outcome.Kind == llm.OutcomeRateLimited {
		rec.RetryAfterSeconds = outcome.RetryAfter.Seconds()
	}
	if outcome.Cause != nil {
		rec.Cause = outcome.Cause.Error()
	}

	metrics.ObserveProviderAttempt(rec.ProviderID, string(rec.Outcome))
	telemetry.Info("provider.attempt", map[string]any{
		"provider":    rec.ProviderID,
		"model":       rec.Model,
		"attempt":     rec.Attempt,
		"outcome":     string(rec.Outcome),
		"retry_after": rec.RetryAfterSeconds,
		"cause":       rec.Cause,
	})
	return rec
}

func fillEstimatedReading(r *ResumeAnalysisResult, req AnalysisRequest) {
	if r.EstimatedReading.WordCount == 0 {
		r.EstimatedReading.WordCount = req.Text.WordCount
	}
	if r.EstimatedReading.Seconds == 0 && r.EstimatedReading.WordCount > 0 {
		// 200 wpm reading speed.
		r.EstimatedReading.Seconds = r.EstimatedReading.WordCount * 60 / 200
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
