package analyses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-pipeline/internal/analytics"
	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/recommend"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/telemetry"
)

// Service runs the full analysis pipeline: extraction, orchestrated provider
// calls, persistence, then analytics and recommendations fan-out.
type Service struct {
	Extractor    *extract.Extractor
	Orchestrator *Orchestrator
	Repo         Repo
	Analytics    *analytics.Service
	Recommender  *recommend.Engine

	// RecommendLimit bounds the course list attached to a run; <=0 uses the
	// engine default.
	RecommendLimit int

	now func() time.Time
}

// RunInput is one pipeline invocation.
type RunInput struct {
	Document     extract.RawDocument
	UserID       string
	JobRole      string
	AnalysisType string
}

// RunOutput is the pipeline result. Warnings carry post-analysis side-effect
// failures (analytics, trend, recommendations) that do not fail the run.
type RunOutput struct {
	Analysis        Analysis                         `json:"analysis"`
	Recommendations []recommend.CourseRecommendation `json:"recommendations,omitempty"`
	Warnings        []string                         `json:"warnings,omitempty"`
}

// Run executes the pipeline for one uploaded document. A failed run is still
// persisted with its error code and attempt history, except when the caller
// cancelled.
func (s *Service) Run(ctx context.Context, in RunInput) (RunOutput, error) {
	started := s.timeNow()

	analysisType, err := ParseAnalysisType(in.AnalysisType)
	if err != nil {
		return RunOutput{}, err
	}

	text, err := s.Extractor.Extract(ctx, in.Document)
	if err != nil {
		metrics.ObserveExtractionError(extractionErrorKind(err))
		s.finishFailed(ctx, in, analysisType, nil, err, started)
		return RunOutput{}, err
	}

	req := AnalysisRequest{Text: text, JobRole: in.JobRole, AnalysisType: analysisType}
	result, attempts, err := s.Orchestrator.Analyze(ctx, req)
	if err != nil {
		s.finishFailed(ctx, in, analysisType, attempts, err, started)
		return RunOutput{}, err
	}

	completed := s.timeNow()
	rec := Analysis{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		FileName:     in.Document.FileName,
		JobRole:      in.JobRole,
		AnalysisType: analysisType,
		Status:       StatusCompleted,
		Result:       &result,
		Attempts:     attempts,
		CreatedAt:    started,
		CompletedAt:  &completed,
	}
	if n := len(attempts); n > 0 {
		rec.Provider = attempts[n-1].ProviderID
		rec.Model = attempts[n-1].Model
	}

	out := RunOutput{Analysis: rec}
	if err := s.Repo.Create(ctx, rec); err != nil {
		// The caller still gets the result; persistence failure is a warning.
		out.Warnings = append(out.Warnings, fmt.Sprintf("analysis record not persisted: %v", err))
		telemetry.Error("analysis.persist_failed", map[string]any{
			"analysis_id": rec.ID,
			"user_id":     rec.UserID,
			"error":       err.Error(),
		})
	}

	out.Warnings = append(out.Warnings, s.fanOut(ctx, rec, result, &out)...)

	metrics.ObserveAnalysis(StatusCompleted, completed.Sub(started).Seconds())
	telemetry.Info("analysis.completed", map[string]any{
		"analysis_id":   rec.ID,
		"user_id":       rec.UserID,
		"provider":      rec.Provider,
		"attempts":      len(attempts),
		"ats_score":     result.ATSScore,
		"overall_score": result.OverallScore,
		"duration_ms":   completed.Sub(started).Milliseconds(),
	})
	return out, nil
}

// fanOut runs the analytics update and the recommendation pass concurrently.
// Both are best-effort; each failure becomes a warning.
func (s *Service) fanOut(ctx context.Context, rec Analysis, result ResumeAnalysisResult, out *RunOutput) []string {
	var (
		analyticsErr error
		recommendErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	if s.Analytics != nil {
		g.Go(func() error {
			analyticsErr = s.Analytics.Record(gctx, rec.UserID, analytics.Sample{
				ATSScore:     result.ATSScore,
				OverallScore: result.OverallScore,
				At:           rec.CreatedAt,
			})
			return nil
		})
	}
	if s.Recommender != nil {
		g.Go(func() error {
			gap := append([]string{}, result.SkillsAnalysis.MissingSkills...)
			gap = append(gap, result.KeywordAnalysis.MissingKeywords...)
			courses, err := s.Recommender.Recommend(gctx, recommend.Request{
				JobRole:   rec.JobRole,
				SkillsGap: gap,
				Limit:     s.RecommendLimit,
			})
			if err != nil {
				recommendErr = err
				return nil
			}
			out.Recommendations = courses
			return nil
		})
	}
	_ = g.Wait()

	var warnings []string
	if analyticsErr != nil {
		var trendErr *analytics.TrendAppendError
		if errors.As(analyticsErr, &trendErr) {
			warnings = append(warnings, fmt.Sprintf("analytics trend point not recorded: %v", trendErr.Cause))
		} else {
			warnings = append(warnings, fmt.Sprintf("analytics update failed: %v", analyticsErr))
		}
	}
	if recommendErr != nil && !errors.Is(recommendErr, recommend.ErrInvalidRequest) {
		warnings = append(warnings, fmt.Sprintf("course recommendations unavailable: %v", recommendErr))
	}
	return warnings
}

// finishFailed persists a failed run for diagnostics. Caller cancellation is
// not persisted; the record would be misleading.
func (s *Service) finishFailed(ctx context.Context, in RunInput, analysisType AnalysisType, attempts []ProviderAttempt, cause error, started time.Time) {
	if ctx.Err() != nil {
		return
	}

	completed := s.timeNow()
	rec := Analysis{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		FileName:     in.Document.FileName,
		JobRole:      in.JobRole,
		AnalysisType: analysisType,
		Status:       StatusFailed,
		Attempts:     attempts,
		ErrorCode:    ErrorCodeFor(cause),
		CreatedAt:    started,
		CompletedAt:  &completed,
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		telemetry.Error("analysis.persist_failed", map[string]any{
			"analysis_id": rec.ID,
			"user_id":     rec.UserID,
			"error":       err.Error(),
		})
	}

	metrics.ObserveAnalysis(StatusFailed, completed.Sub(started).Seconds())
	telemetry.Error("analysis.failed", map[string]any{
		"analysis_id": rec.ID,
		"user_id":     rec.UserID,
		"error_code":  rec.ErrorCode,
		"attempts":    len(attempts),
		"error":       cause.Error(),
	})
}

// GetByID fetches one persisted analysis.
func (s *Service) GetByID(ctx context.Context, id string) (Analysis, error) {
	return s.Repo.GetByID(ctx, id)
}

// ListByUser fetches a page of a user's analyses, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) timeNow() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// ErrorCodeFor maps a pipeline error to its persisted error code.
func ErrorCodeFor(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat),
		errors.Is(err, extract.ErrCorruptDocument),
		errors.Is(err, extract.ErrEmptyContent),
		errors.Is(err, ErrInvalidAnalysisType):
		return ErrorCodeInput
	case errors.Is(err, ErrAllProvidersExhausted):
		return ErrorCodeProviderExhausted
	case errors.Is(err, ErrSchemaValidation):
		return ErrorCodeSchemaMismatch
	default:
		return ErrorCodeInternal
	}
}

func extractionErrorKind(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, extract.ErrCorruptDocument):
		return "corrupt_document"
	case errors.Is(err, extract.ErrEmptyContent):
		return "empty_content"
	default:
		return "other"
	}
}
