package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	resultJSON, err := marshalNullable(analysis.Result)
	if err != nil {
		return err
	}
	attemptsJSON, err := marshalNullable(analysis.Attempts)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO analyses (
			id, user_id, file_name, job_role, analysis_type, status,
			provider, model, result, attempts, error_code, created_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		analysis.ID,
		analysis.UserID,
		analysis.FileName,
		analysis.JobRole,
		string(analysis.AnalysisType),
		analysis.Status,
		analysis.Provider,
		analysis.Model,
		resultJSON,
		attemptsJSON,
		nullString(analysis.ErrorCode),
		analysis.CreatedAt,
		analysis.CompletedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, file_name, job_role, analysis_type, status,
		       provider, model, result, attempts, error_code, created_at, completed_at
		FROM analyses WHERE id = $1`, analysisID)
	return scanAnalysis(row)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, file_name, job_role, analysis_type, status,
		       provider, model, result, attempts, error_code, created_at, completed_at
		FROM analyses WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Analysis, 0, limit)
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var (
		analysis     Analysis
		analysisType string
		resultJSON   []byte
		attemptsJSON []byte
		errorCode    sql.NullString
		completedAt  sql.NullTime
	)
	err := row.Scan(
		&analysis.ID,
		&analysis.UserID,
		&analysis.FileName,
		&analysis.JobRole,
		&analysisType,
		&analysis.Status,
		&analysis.Provider,
		&analysis.Model,
		&resultJSON,
		&attemptsJSON,
		&errorCode,
		&analysis.CreatedAt,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	if err != nil {
		return Analysis{}, err
	}

	analysis.AnalysisType = AnalysisType(analysisType)
	if errorCode.Valid {
		analysis.ErrorCode = errorCode.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		analysis.CompletedAt = &t
	}
	if len(resultJSON) > 0 {
		var result ResumeAnalysisResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return Analysis{}, err
		}
		analysis.Result = &result
	}
	if len(attemptsJSON) > 0 {
		if err := json.Unmarshal(attemptsJSON, &analysis.Attempts); err != nil {
			return Analysis{}, err
		}
	}
	return analysis, nil
}

func marshalNullable(v any) (any, error) {
	switch val := v.(type) {
	case *ResumeAnalysisResult:
		if val == nil {
			return nil, nil
		}
	case []ProviderAttempt:
		if len(val) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
