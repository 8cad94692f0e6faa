package analyses

import (
	"reflect"
	"testing"
)

func TestPostProcessClampsScores(t *testing.T) {
	r := ResumeAnalysisResult{
		ATSScore:     150,
		OverallScore: -10,
	}
	r.SectionAnalysis.Experience.Score = 101
	r.Formatting.Score = -1
	r.IndustryBenchmark.Percentile = 400

	postProcess(&r)

	if r.ATSScore != 100 {
		t.Fatalf("atsScore = %v, want 100", r.ATSScore)
	}
	if r.OverallScore != 0 {
		t.Fatalf("overallScore = %v, want 0", r.OverallScore)
	}
	if r.SectionAnalysis.Experience.Score != 100 {
		t.Fatalf("experience score = %v, want 100", r.SectionAnalysis.Experience.Score)
	}
	if r.Formatting.Score != 0 {
		t.Fatalf("formatting score = %v, want 0", r.Formatting.Score)
	}
	if r.IndustryBenchmark.Percentile != 100 {
		t.Fatalf("percentile = %v, want 100", r.IndustryBenchmark.Percentile)
	}
}

func TestPostProcessDeduplicatesKeywords(t *testing.T) {
	r := ResumeAnalysisResult{}
	r.KeywordAnalysis.MatchedKeywords = []string{"Go", "go", " GO ", "Docker", ""}
	r.SkillsAnalysis.MissingSkills = []string{"Kubernetes", "kubernetes"}

	postProcess(&r)

	if want := []string{"Go", "Docker"}; !reflect.DeepEqual(r.KeywordAnalysis.MatchedKeywords, want) {
		t.Fatalf("matchedKeywords = %v, want %v", r.KeywordAnalysis.MatchedKeywords, want)
	}
	if want := []string{"Kubernetes"}; !reflect.DeepEqual(r.SkillsAnalysis.MissingSkills, want) {
		t.Fatalf("missingSkills = %v, want %v", r.SkillsAnalysis.MissingSkills, want)
	}
}

func TestPostProcessNormalizesPriorities(t *testing.T) {
	r := ResumeAnalysisResult{
		Recommendations: []Recommendation{
			{Priority: "HIGH"},
			{Priority: "urgent"},
			{Priority: " low "},
			{Priority: ""},
		},
	}

	postProcess(&r)

	want := []string{PriorityHigh, PriorityMedium, PriorityLow, PriorityMedium}
	for i, rec := range r.Recommendations {
		if rec.Priority != want[i] {
			t.Fatalf("priority %d = %q, want %q", i, rec.Priority, want[i])
		}
	}
}

func TestPostProcessIsIdempotent(t *testing.T) {
	r := ResumeAnalysisResult{
		ATSScore:  120,
		Strengths: []string{"a"},
		Recommendations: []Recommendation{
			{Priority: "weird"},
		},
	}
	r.KeywordAnalysis.MatchedKeywords = []string{"Go", "go"}

	postProcess(&r)
	first := r
	postProcess(&r)

	if !reflect.DeepEqual(first, r) {
		t.Fatalf("second pass changed result: %+v vs %+v", first, r)
	}
}
