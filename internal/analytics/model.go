// Package analytics folds completed analyses into per-user running
// aggregates and an append-only trend series.
package analytics

import "time"

// UserAnalytics is the running aggregate for one user. It is mutated
// exactly once per completed analysis via a serialized read-modify-write.
type UserAnalytics struct {
	UserID        string    `json:"userId"`
	AnalysisCount int64     `json:"analysisCount"`
	AverageScore  float64   `json:"averageScore"`
	BestScore     float64   `json:"bestScore"`
	WorstScore    float64   `json:"worstScore"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TrendPoint is one write-once time-series sample used for historical charts.
type TrendPoint struct {
	UserID       string    `json:"userId"`
	Timestamp    time.Time `json:"timestamp"`
	ATSScore     float64   `json:"atsScore"`
	OverallScore float64   `json:"overallScore"`
}

// Sample carries the scores of one completed analysis into aggregation.
type Sample struct {
	ATSScore     float64
	OverallScore float64
	At           time.Time
}
