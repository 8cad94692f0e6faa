package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	weightSkills     = 0.6
	weightCategory   = 0.3
	weightPopularity = 0.1

	defaultLimit = 10
)

// Engine scores a fixed catalog. It is stateless between calls and safe for
// concurrent use.
type Engine struct {
	catalog []CourseCandidate

	// maxPopularity normalizes the rating x log(reviews+1) signal across
	// the catalog; precomputed at construction.
	maxPopularity float64
}

// NewEngine builds an engine over a catalog snapshot.
func NewEngine(catalog []CourseCandidate) *Engine {
	e := &Engine{catalog: catalog}
	for _, c := range catalog {
		if p := rawPopularity(c); p > e.maxPopularity {
			e.maxPopularity = p
		}
	}
	return e
}

// Recommend returns up to req.Limit courses ordered by descending relevance.
// An empty catalog yields an empty slice; a request with neither jobRole nor
// skillsGap is rejected.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]CourseRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.JobRole) == "" && len(req.SkillsGap) == 0 {
		return nil, ErrInvalidRequest
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	gap := make(map[string]bool, len(req.SkillsGap))
	for _, skill := range req.SkillsGap {
		if trimmed := strings.ToLower(strings.TrimSpace(skill)); trimmed != "" {
			gap[trimmed] = true
		}
	}

	out := make([]CourseRecommendation, 0, len(e.catalog))
	for _, candidate := range e.catalog {
		rec := e.score(candidate, req.JobRole, gap)
		if rec.RelevanceScore > 0 {
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RelevanceScore != out[j].RelevanceScore {
			return out[i].RelevanceScore > out[j].RelevanceScore
		}
		if out[i].Course.Rating != out[j].Course.Rating {
			return out[i].Course.Rating > out[j].Course.Rating
		}
		return out[i].Course.Title < out[j].Course.Title
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (e *Engine) score(candidate CourseCandidate, jobRole string, gap map[string]bool) CourseRecommendation {
	var matched []string
	for _, skill := range candidate.Skills {
		if gap[strings.ToLower(strings.TrimSpace(skill))] {
			matched = append(matched, skill)
		}
	}
	skillScore := 0.0
	if len(candidate.Skills) > 0 {
		skillScore = float64(len(matched)) / float64(len(candidate.Skills))
	}

	categoryScore := 0.0
	categoryMatched := matchesCategory(candidate.Category, jobRole)
	if categoryMatched {
		categoryScore = 1.0
	}

	popularity := 0.0
	if e.maxPopularity > 0 {
		popularity = rawPopularity(candidate) / e.maxPopularity
	}

	relevance := weightSkills*skillScore + weightCategory*categoryScore + weightPopularity*popularity

	// Reasons list contributing matches in descending contribution order.
	var reasons []string
	type contribution struct {
		weight float64
		reason string
	}
	var contribs []contribution
	if skillScore > 0 {
		contribs = append(contribs, contribution{
			weight: weightSkills * skillScore,
			reason: fmt.Sprintf("covers missing skills: %s", strings.Join(matched, ", ")),
		})
	}
	if categoryMatched {
		contribs = append(contribs, contribution{
			weight: weightCategory,
			reason: fmt.Sprintf("matches the %s category for role %q", candidate.Category, jobRole),
		})
	}
	sort.SliceStable(contribs, func(i, j int) bool { return contribs[i].weight > contribs[j].weight })
	for _, c := range contribs {
		reasons = append(reasons, c.reason)
	}

	return CourseRecommendation{
		Course:         candidate,
		RelevanceScore: relevance,
		Reasons:        reasons,
	}
}

func matchesCategory(category, jobRole string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	jobRole = strings.ToLower(strings.TrimSpace(jobRole))
	if category == "" || jobRole == "" {
		return false
	}
	return strings.Contains(jobRole, category) || strings.Contains(category, jobRole)
}

func rawPopularity(c CourseCandidate) float64 {
	return c.Rating * math.Log(float64(c.ReviewCount)+1)
}
