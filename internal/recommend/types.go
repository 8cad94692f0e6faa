// Package recommend scores a course catalog against the skills gap derived
// from a resume analysis.
package recommend

import "errors"

// ErrInvalidRequest reports a request with nothing to match against.
var ErrInvalidRequest = errors.New("recommendation request needs a jobRole or a skills gap")

// CourseCandidate is one catalog entry.
type CourseCandidate struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Provider    string   `json:"provider"`
	Category    string   `json:"category"`
	Skills      []string `json:"skills"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	URL         string   `json:"url"`
}

// CourseRecommendation is a scored catalog entry; ephemeral, recomputed on
// every call, never persisted.
type CourseRecommendation struct {
	Course         CourseCandidate `json:"course"`
	RelevanceScore float64         `json:"relevanceScore"`
	Reasons        []string        `json:"reasons"`
}

// Request selects and bounds a recommendation run.
type Request struct {
	JobRole   string   `json:"jobRole"`
	SkillsGap []string `json:"skillsGap"`
	Limit     int      `json:"limit"`
}
