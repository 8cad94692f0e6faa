package analytics

import (
	"context"
	"database/sql"
	"errors"
)

// PGStore implements Store using Postgres. The aggregate read-modify-write
// is a single atomic upsert so concurrent same-user updates cannot lose an
// increment.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed analytics store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Get(ctx context.Context, userID string) (UserAnalytics, error) {
	var u UserAnalytics
	err := s.DB.QueryRowContext(ctx, `
		SELECT user_id, analysis_count, average_score, best_score, worst_score, updated_at
		FROM user_analytics WHERE user_id = $1`, userID).
		Scan(&u.UserID, &u.AnalysisCount, &u.AverageScore, &u.BestScore, &u.WorstScore, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return UserAnalytics{UserID: userID}, nil
	}
	if err != nil {
		return UserAnalytics{}, err
	}
	return u, nil
}

func (s *PGStore) Apply(ctx context.Context, userID string, sample Sample) (UserAnalytics, error) {
	var u UserAnalytics
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO user_analytics (user_id, analysis_count, average_score, best_score, worst_score, updated_at)
		VALUES ($1, 1, $2, $2, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			average_score = (user_analytics.average_score * user_analytics.analysis_count + EXCLUDED.average_score)
				/ (user_analytics.analysis_count + 1),
			analysis_count = user_analytics.analysis_count + 1,
			best_score = GREATEST(user_analytics.best_score, EXCLUDED.best_score),
			worst_score = LEAST(user_analytics.worst_score, EXCLUDED.worst_score),
			updated_at = EXCLUDED.updated_at
		RETURNING user_id, analysis_count, average_score, best_score, worst_score, updated_at`,
		userID, sample.OverallScore, sample.At).
		Scan(&u.UserID, &u.AnalysisCount, &u.AverageScore, &u.BestScore, &u.WorstScore, &u.UpdatedAt)
	if err != nil {
		return UserAnalytics{}, err
	}
	return u, nil
}

func (s *PGStore) AppendTrend(ctx context.Context, point TrendPoint) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO analytics_trend (user_id, ts, ats_score, overall_score)
		VALUES ($1, $2, $3, $4)`,
		point.UserID, point.Timestamp, point.ATSScore, point.OverallScore)
	return err
}

func (s *PGStore) Trend(ctx context.Context, userID string, limit int) ([]TrendPoint, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT user_id, ts, ats_score, overall_score
		FROM analytics_trend WHERE user_id = $1
		ORDER BY ts DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TrendPoint, 0, limit)
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.UserID, &p.Timestamp, &p.ATSScore, &p.OverallScore); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
