package analyses

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// requiredFields are top-level keys a payload must carry; they are never
// fabricated by the repair pass.
var requiredFields = []string{"atsScore", "overallScore", "sectionAnalysis"}

// optionalDefaults are the neutral values the single repair pass may fill in
// for missing optional fields. Empty lists and zero sub-objects only;
// repair never invents analysis content.
var optionalDefaults = map[string]any{
	"strengths":       []string{},
	"weaknesses":      []string{},
	"recommendations": []Recommendation{},
	"skillsAnalysis": SkillsAnalysis{
		TechnicalSkills: []string{},
		SoftSkills:      []string{},
		MissingSkills:   []string{},
	},
	"keywordAnalysis": KeywordAnalysis{
		MatchedKeywords: []string{},
		MissingKeywords: []string{},
	},
	"formatting":        Formatting{Issues: []string{}},
	"industryBenchmark": IndustryBenchmark{},
	"estimatedReading":  EstimatedReading{},
}

// ParseResult decodes and validates a raw provider payload against the
// result schema. On failure it applies at most one best-effort repair and
// re-validates; a payload that still does not conform is rejected.
func ParseResult(raw json.RawMessage, analysisType AnalysisType) (ResumeAnalysisResult, error) {
	out, err := decodeResult(raw, analysisType)
	if err == nil {
		return out, nil
	}

	repaired, repairErr := repairPayload(raw)
	if repairErr != nil {
		return ResumeAnalysisResult{}, err
	}
	return decodeResult(repaired, analysisType)
}

func decodeResult(raw json.RawMessage, analysisType AnalysisType) (ResumeAnalysisResult, error) {
	cleaned := stripFences(raw)
	if len(cleaned) == 0 {
		return ResumeAnalysisResult{}, errors.New("empty payload")
	}

	var top map[string]any
	if err := json.Unmarshal(cleaned, &top); err != nil {
		return ResumeAnalysisResult{}, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	for _, key := range requiredFields {
		if _, ok := top[key]; !ok {
			return ResumeAnalysisResult{}, fmt.Errorf("missing field: %s", key)
		}
	}

	var out ResumeAnalysisResult
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return ResumeAnalysisResult{}, err
	}
	if err := validateResult(out, analysisType); err != nil {
		return ResumeAnalysisResult{}, err
	}
	return out, nil
}

func validateResult(r ResumeAnalysisResult, analysisType AnalysisType) error {
	if analysisType != TypeATSOnly {
		if len(r.Strengths) == 0 {
			return errors.New("strengths must not be empty")
		}
		if len(r.Weaknesses) == 0 {
			return errors.New("weaknesses must not be empty")
		}
	}
	return nil
}

// repairPayload fills missing optional fields with neutral defaults. It only
// applies to payloads that are already valid JSON objects; anything else is
// not plausibly near-valid.
func repairPayload(raw json.RawMessage) (json.RawMessage, error) {
	cleaned := stripFences(raw)

	var top map[string]any
	if err := json.Unmarshal(cleaned, &top); err != nil {
		return nil, fmt.Errorf("not repairable: %w", err)
	}

	for key, def := range optionalDefaults {
		if _, ok := top[key]; !ok {
			top[key] = def
		}
	}
	return json.Marshal(top)
}

// stripFences removes markdown code fences some providers wrap around JSON.
func stripFences(raw json.RawMessage) json.RawMessage {
	clean := strings.TrimSpace(string(raw))
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return json.RawMessage(strings.TrimSpace(clean))
}
