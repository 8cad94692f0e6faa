package analyses

import "strings"

// postProcess enforces the result invariants after schema validation:
// every score clamped into [0,100], keyword and skill lists deduplicated
// case-insensitively, recommendation priorities normalized. Running it on an
// already-processed result is a no-op.
func postProcess(r *ResumeAnalysisResult) {
	r.ATSScore = clampScore(r.ATSScore)
	r.OverallScore = clampScore(r.OverallScore)
	r.Formatting.Score = clampScore(r.Formatting.Score)
	r.IndustryBenchmark.AverageScore = clampScore(r.IndustryBenchmark.AverageScore)
	r.IndustryBenchmark.Percentile = clampScore(r.IndustryBenchmark.Percentile)

	r.SectionAnalysis.ContactInfo.Score = clampScore(r.SectionAnalysis.ContactInfo.Score)
	r.SectionAnalysis.Summary.Score = clampScore(r.SectionAnalysis.Summary.Score)
	r.SectionAnalysis.Experience.Score = clampScore(r.SectionAnalysis.Experience.Score)
	r.SectionAnalysis.Education.Score = clampScore(r.SectionAnalysis.Education.Score)
	r.SectionAnalysis.Skills.Score = clampScore(r.SectionAnalysis.Skills.Score)

	r.Strengths = ensureList(r.Strengths)
	r.Weaknesses = ensureList(r.Weaknesses)
	r.KeywordAnalysis.MatchedKeywords = dedupeFold(r.KeywordAnalysis.MatchedKeywords)
	r.KeywordAnalysis.MissingKeywords = dedupeFold(r.KeywordAnalysis.MissingKeywords)
	r.SkillsAnalysis.TechnicalSkills = dedupeFold(r.SkillsAnalysis.TechnicalSkills)
	r.SkillsAnalysis.SoftSkills = dedupeFold(r.SkillsAnalysis.SoftSkills)
	r.SkillsAnalysis.MissingSkills = dedupeFold(r.SkillsAnalysis.MissingSkills)
	r.Formatting.Issues = ensureList(r.Formatting.Issues)

	if r.Recommendations == nil {
		r.Recommendations = []Recommendation{}
	}
	for i := range r.Recommendations {
		r.Recommendations[i].Priority = normalizePriority(r.Recommendations[i].Priority)
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// dedupeFold removes case-insensitive duplicates, keeping first-seen order
// and casing, and drops blank entries.
func dedupeFold(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

func ensureList(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func normalizePriority(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}
