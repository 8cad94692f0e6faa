package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPersistenceUnavailable reports that the backing store could not be
// reached. It is surfaced to the caller, never retried here; storage retry
// policy belongs to the storage collaborator.
var ErrPersistenceUnavailable = errors.New("analytics store unavailable")

// TrendAppendError reports a trend-point append that failed after the
// aggregate update already committed. The aggregate is authoritative and is
// not rolled back; trend data is supplementary.
type TrendAppendError struct {
	Cause error
}

func (e *TrendAppendError) Error() string {
	return fmt.Sprintf("trend point append failed (aggregate committed): %v", e.Cause)
}

func (e *TrendAppendError) Unwrap() error { return e.Cause }

// Store persists aggregates and trend points. Apply must be atomic per
// user: concurrent calls for the same user must not lose an update.
type Store interface {
	Get(ctx context.Context, userID string) (UserAnalytics, error)
	Apply(ctx context.Context, userID string, sample Sample) (UserAnalytics, error)
	AppendTrend(ctx context.Context, point TrendPoint) error
	Trend(ctx context.Context, userID string, limit int) ([]TrendPoint, error)
}

// Service manages analytics aggregation via an underlying store.
type Service struct {
	store Store
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewServiceWithStore constructs a Service over an explicit store.
func NewServiceWithStore(store Store) *Service {
	return &Service{store: store}
}

// Record folds one completed analysis into the user's aggregate and appends
// one trend point. The two writes fail independently: a failed aggregate
// update aborts, a failed trend append returns *TrendAppendError with the
// aggregate already committed.
func (s *Service) Record(ctx context.Context, userID string, sample Sample) error {
	if userID == "" {
		return errors.New("userID is required")
	}
	if sample.At.IsZero() {
		sample.At = time.Now().UTC()
	}

	if _, err := s.store.Apply(ctx, userID, sample); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	point := TrendPoint{
		UserID:       userID,
		Timestamp:    sample.At,
		ATSScore:     sample.ATSScore,
		OverallScore: sample.OverallScore,
	}
	if err := s.store.AppendTrend(ctx, point); err != nil {
		return &TrendAppendError{Cause: err}
	}
	return nil
}

// Get returns the current aggregate for a user, or a zero-state aggregate
// if none exists yet.
func (s *Service) Get(ctx context.Context, userID string) (UserAnalytics, error) {
	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return UserAnalytics{}, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return u, nil
}

// Trend returns up to limit trend points for a user, newest first.
func (s *Service) Trend(ctx context.Context, userID string, limit int) ([]TrendPoint, error) {
	if limit <= 0 {
		limit = 50
	}
	points, err := s.store.Trend(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return points, nil
}
