package analyses

// ResumeAnalysisResult is the validated structured output of the pipeline.
// Field names and nesting are a fixed, versioned contract; downstream
// consumers depend on exact field presence.
//
// JSON shape:
//
//	{
//	  "atsScore": number (0-100),
//	  "overallScore": number (0-100),
//	  "strengths": ["string"],
//	  "weaknesses": ["string"],
//	  "recommendations": [
//	    {"category": "string", "priority": "high|medium|low", "description": "string", "impact": "string"}
//	  ],
//	  "skillsAnalysis": {"technicalSkills": [], "softSkills": [], "missingSkills": []},
//	  "sectionAnalysis": {
//	    "contactInfo": {"score": number, "feedback": "string"},
//	    "summary": {...}, "experience": {...}, "education": {...}, "skills": {...}
//	  },
//	  "keywordAnalysis": {"matchedKeywords": [], "missingKeywords": [], "keywordDensity": number},
//	  "formatting": {"score": number, "issues": []},
//	  "industryBenchmark": {"industry": "string", "averageScore": number, "percentile": number},
//	  "estimatedReading": {"seconds": number, "wordCount": number}
//	}
type ResumeAnalysisResult struct {
	ATSScore          float64           `json:"atsScore"`
	OverallScore      float64           `json:"overallScore"`
	Strengths         []string          `json:"strengths"`
	Weaknesses        []string          `json:"weaknesses"`
	Recommendations   []Recommendation  `json:"recommendations"`
	SkillsAnalysis    SkillsAnalysis    `json:"skillsAnalysis"`
	SectionAnalysis   SectionAnalysis   `json:"sectionAnalysis"`
	KeywordAnalysis   KeywordAnalysis   `json:"keywordAnalysis"`
	Formatting        Formatting        `json:"formatting"`
	IndustryBenchmark IndustryBenchmark `json:"industryBenchmark"`
	EstimatedReading  EstimatedReading  `json:"estimatedReading"`
}

// Recommendation priorities; unknown values normalize to PriorityMedium.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Recommendation struct {
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

type SkillsAnalysis struct {
	TechnicalSkills []string `json:"technicalSkills"`
	SoftSkills      []string `json:"softSkills"`
	MissingSkills   []string `json:"missingSkills"`
}

type SectionScore struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type SectionAnalysis struct {
	ContactInfo SectionScore `json:"contactInfo"`
	Summary     SectionScore `json:"summary"`
	Experience  SectionScore `json:"experience"`
	Education   SectionScore `json:"education"`
	Skills      SectionScore `json:"skills"`
}

type KeywordAnalysis struct {
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	KeywordDensity  float64  `json:"keywordDensity"`
}

type Formatting struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}

type IndustryBenchmark struct {
	Industry     string  `json:"industry"`
	AverageScore float64 `json:"averageScore"`
	Percentile   float64 `json:"percentile"`
}

type EstimatedReading struct {
	Seconds   int `json:"seconds"`
	WordCount int `json:"wordCount"`
}
