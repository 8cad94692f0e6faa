package analyses

import (
	"fmt"
	"time"

	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/llm"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// AnalysisType selects the analysis mode requested by the caller.
type AnalysisType string

const (
	TypeStandard AnalysisType = "standard"
	TypeDetailed AnalysisType = "detailed"
	TypeATSOnly  AnalysisType = "ats-only"
)

// ParseAnalysisType validates a caller-supplied analysis type. Empty input
// selects the standard mode.
func ParseAnalysisType(raw string) (AnalysisType, error) {
	switch AnalysisType(raw) {
	case "":
		return TypeStandard, nil
	case TypeStandard, TypeDetailed, TypeATSOnly:
		return AnalysisType(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAnalysisType, raw)
	}
}

// AnalysisRequest is the immutable input to one orchestration run.
type AnalysisRequest struct {
	Text         extract.ExtractedText
	JobRole      string
	AnalysisType AnalysisType
}

// ProviderAttempt records one provider call for observability and retry
// diagnostics. The orchestrator accumulates an ordered sequence of these.
type ProviderAttempt struct {
	ProviderID        string          `json:"providerId"`
	Model             string          `json:"model"`
	Attempt           int             `json:"attempt"`
	StartedAt         time.Time       `json:"startedAt"`
	Outcome           llm.OutcomeKind `json:"outcome"`
	RetryAfterSeconds float64         `json:"retryAfterSeconds,omitempty"`
	Cause             string          `json:"cause,omitempty"`
}

// Analysis is the persisted record of one pipeline run.
type Analysis struct {
	ID           string                `json:"id"`
	UserID       string                `json:"userId"`
	FileName     string                `json:"fileName"`
	JobRole      string                `json:"jobRole"`
	AnalysisType AnalysisType          `json:"analysisType"`
	Status       string                `json:"status"`
	Provider     string                `json:"provider"`
	Model        string                `json:"model"`
	Result       *ResumeAnalysisResult `json:"result,omitempty"`
	Attempts     []ProviderAttempt     `json:"attempts,omitempty"`
	ErrorCode    string                `json:"errorCode,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	CompletedAt  *time.Time            `json:"completedAt,omitempty"`
}
