package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/analysis_v1.txt
var analysisPromptV1 string

// BuildAnalysisPrompt renders the analysis prompt template. The template
// content is an opaque input to the pipeline; only its placeholders are
// contract here.
func BuildAnalysisPrompt(resumeText string, sectionNames []string, jobRole, analysisMode string) string {
	role := strings.TrimSpace(jobRole)
	if role == "" {
		role = "unspecified"
	}
	sections := "none detected"
	if len(sectionNames) > 0 {
		sections = strings.Join(sectionNames, ", ")
	}

	out := analysisPromptV1
	out = strings.ReplaceAll(out, "{{JOB_ROLE}}", role)
	out = strings.ReplaceAll(out, "{{ANALYSIS_MODE}}", analysisMode)
	out = strings.ReplaceAll(out, "{{SECTIONS}}", sections)
	out = strings.ReplaceAll(out, "{{RESUME_TEXT}}", resumeText)
	return out
}
