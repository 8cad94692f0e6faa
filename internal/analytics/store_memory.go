package analytics

import (
	"context"
	"sync"
)

// memoryStore keeps one locked entry per user so analyses for different
// users never contend; same-user read-modify-write cycles serialize on the
// entry lock.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]*userEntry
}

type userEntry struct {
	mu        sync.Mutex
	aggregate UserAnalytics
	trend     []TrendPoint
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]*userEntry)}
}

func (s *memoryStore) entry(userID string) *userEntry {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[userID]; ok {
		return e
	}
	e = &userEntry{aggregate: UserAnalytics{UserID: userID}}
	s.entries[userID] = e
	return e
}

func (s *memoryStore) Get(ctx context.Context, userID string) (UserAnalytics, error) {
	if err := ctx.Err(); err != nil {
		return UserAnalytics{}, err
	}
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.aggregate, nil
}

func (s *memoryStore) Apply(ctx context.Context, userID string, sample Sample) (UserAnalytics, error) {
	if err := ctx.Err(); err != nil {
		return UserAnalytics{}, err
	}
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.aggregate = fold(e.aggregate, userID, sample)
	return e.aggregate, nil
}

func (s *memoryStore) AppendTrend(ctx context.Context, point TrendPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := s.entry(point.UserID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trend = append(e.trend, point)
	return nil
}

func (s *memoryStore) Trend(ctx context.Context, userID string, limit int) ([]TrendPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]TrendPoint, 0, limit)
	for i := len(e.trend) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, e.trend[i])
	}
	return out, nil
}

// fold applies one sample to an aggregate as a pure function; callers hold
// whatever lock serializes the read-modify-write.
func fold(current UserAnalytics, userID string, sample Sample) UserAnalytics {
	score := sample.OverallScore
	count := current.AnalysisCount

	next := current
	next.UserID = userID
	next.AverageScore = (current.AverageScore*float64(count) + score) / float64(count+1)
	next.AnalysisCount = count + 1
	next.UpdatedAt = sample.At

	if count == 0 {
		next.BestScore = score
		next.WorstScore = score
		return next
	}
	if score > current.BestScore {
		next.BestScore = score
	}
	if score < current.WorstScore {
		next.WorstScore = score
	}
	return next
}
