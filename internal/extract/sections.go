package extract

import (
	"strings"
	"unicode"
)

// Canonical section names produced by the segmentation pass.
const (
	SectionContactInfo    = "contactInfo"
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
)

// headingVocabulary maps lowercase heading synonyms to canonical section names.
var headingVocabulary = map[string]string{
	"contact":             SectionContactInfo,
	"contact information": SectionContactInfo,
	"contact info":        SectionContactInfo,
	"personal details":    SectionContactInfo,

	"summary":              SectionSummary,
	"professional summary": SectionSummary,
	"career summary":       SectionSummary,
	"objective":            SectionSummary,
	"career objective":     SectionSummary,
	"profile":              SectionSummary,
	"about me":             SectionSummary,

	"experience":              SectionExperience,
	"work experience":         SectionExperience,
	"employment history":      SectionExperience,
	"professional experience": SectionExperience,
	"work history":            SectionExperience,
	"career history":          SectionExperience,

	"education":           SectionEducation,
	"academic background": SectionEducation,
	"academics":           SectionEducation,
	"qualifications":      SectionEducation,

	"skills":            SectionSkills,
	"technical skills":  SectionSkills,
	"core competencies": SectionSkills,
	"key skills":        SectionSkills,
	"competencies":      SectionSkills,

	"projects":          SectionProjects,
	"personal projects": SectionProjects,
	"selected projects": SectionProjects,

	"certifications":            SectionCertifications,
	"certificates":              SectionCertifications,
	"licenses & certifications": SectionCertifications,
}

const maxHeadingWords = 6

// segmentSections runs the heading-heuristic segmentation pass over
// normalized text. A line is a section boundary when it is short, does not
// end in sentence punctuation, and matches the heading vocabulary. Text
// before the first boundary is unsectioned preamble. Best-effort only.
func segmentSections(text string) []Section {
	if text == "" {
		return nil
	}

	type boundary struct {
		name      string
		lineStart int
		bodyStart int
	}

	var boundaries []boundary
	seen := make(map[string]bool)

	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		lineStart := offset
		offset += len(line)

		name, ok := matchHeading(strings.TrimSuffix(line, "\n"))
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		boundaries = append(boundaries, boundary{
			name:      name,
			lineStart: lineStart,
			bodyStart: offset,
		})
	}

	sections := make([]Section, 0, len(boundaries))
	for i, b := range boundaries {
		end := len(text)
		if i+1 < len(boundaries) {
			end = boundaries[i+1].lineStart
		}
		start := b.bodyStart
		if start > end {
			start = end
		}
		sections = append(sections, Section{Name: b.name, Start: start, End: end})
	}
	return sections
}

// matchHeading reports the canonical section for a heading line, if any.
func matchHeading(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "-•*# ")
	trimmed = strings.TrimSuffix(trimmed, ":")
	if trimmed == "" {
		return "", false
	}
	if endsInPunctuation(trimmed) {
		return "", false
	}
	if len(strings.Fields(trimmed)) > maxHeadingWords {
		return "", false
	}
	name, ok := headingVocabulary[strings.ToLower(trimmed)]
	return name, ok
}

func endsInPunctuation(s string) bool {
	runes := []rune(s)
	last := runes[len(runes)-1]
	return unicode.IsPunct(last)
}
