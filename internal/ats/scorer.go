package ats

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"medquest/careers-api/internal/models"
)

const (
	baseScore             = 30
	seniorityBonus        = 15
	roleFamilyBonus       = 5
	pointsPerKeyword      = 4
	maxKeywordScore       = 40
	pointsPerWorkEntry    = 3
	maxWorkScore          = 15
	educationBonus        = 8
	pdfResumeBonus        = 4
	maxScoreBeforeJitter  = 98
	maxScore              = 100
	maxJitter             = 2
	suggestedKeywordLimit = 10
	lowScoreThreshold     = 60
)

// JitterFunc returns a perturbation in [-2, 2].
type JitterFunc func() int

func defaultJitter() int {
	return rand.IntN(2*maxJitter+1) - maxJitter
}

type Scorer struct {
	jitter JitterFunc
}

type ScorerOption func(*Scorer)

// WithJitter replaces the random jitter source. Values outside [-2, 2] are
// clamped.
func WithJitter(fn JitterFunc) ScorerOption {
	return func(s *Scorer) {
		s.jitter = fn
	}
}

func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{jitter: defaultJitter}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the heuristic ATS score of profile against job. An empty
// resumeFilename means no resume was uploaded.
func (s *Scorer) Score(job JobPosting, profile models.ApplicantProfile, resumeFilename string) ScoreBreakdown {
	title := strings.ToLower(job.Title)
	signals := ExtractSignals(profile)
	target := TargetSkills(job.Description)

	var b Breakdown
	b.BaseScore = baseScore
	if containsAny(title, seniorityTerms) {
		b.SeniorityBonus = seniorityBonus
	}
	if containsAny(title, roleFamilyTerms) {
		b.RoleFamilyBonus = roleFamilyBonus
	}

	overlap := target.Intersect(signals.Tokens)
	b.KeywordMatchScore = min(len(overlap)*pointsPerKeyword, maxKeywordScore)

	workCount := 0
	if profile.WorkIsList {
		workCount = len(profile.Work)
		b.WorkExperienceScore = min(workCount*pointsPerWorkEntry, maxWorkScore)
	}

	if family, ok := matchRoleFamily(title); ok && containsAny(signals.Blob, family.schoolTerms) {
		b.EducationRelevanceScore = educationBonus
	}

	if strings.HasSuffix(strings.ToLower(resumeFilename), ".pdf") {
		b.ResumeTypeScore = pdfResumeBonus
	}

	b.Jitter = clamp(s.jitter(), -maxJitter, maxJitter)
	score := clamp(clamp(b.Subtotal(), 0, maxScoreBeforeJitter)+b.Jitter, 0, maxScore)

	missing := target.Difference(signals.Tokens)
	candidate := TokenSet{}
	for t := range signals.Tokens {
		if IsCatalogKeyword(t) {
			candidate[t] = struct{}{}
		}
	}

	educationCount := 0
	if profile.EducationIsList {
		educationCount = len(profile.Education)
	}

	return ScoreBreakdown{
		Score:               score,
		Breakdown:           b,
		MatchedKeywords:     overlap.Sorted(),
		MissingKeywords:     missing.Sorted(),
		TargetKeywords:      target.Sorted(),
		CandidateKeywords:   candidate.Sorted(),
		Suggestions:         suggestions(b, score, missing.Sorted(), workCount),
		WorkExperienceCount: workCount,
		EducationCount:      educationCount,
	}
}

func suggestions(b Breakdown, score int, missing []string, workCount int) []string {
	out := []string{}
	if len(missing) > 0 {
		if len(missing) > suggestedKeywordLimit {
			missing = missing[:suggestedKeywordLimit]
		}
		out = append(out, "Add missing keywords: "+strings.Join(missing, ", "))
	}
	if b.WorkExperienceScore < maxWorkScore {
		out = append(out, fmt.Sprintf("Add more work experience entries (currently %d entries)", workCount))
	}
	if b.EducationRelevanceScore == 0 {
		out = append(out, "Ensure education background matches the role requirements")
	}
	if b.ResumeTypeScore == 0 {
		out = append(out, "Use PDF format for better compatibility")
	}
	if score < lowScoreThreshold {
		out = append(out, "Consider highlighting more relevant skills and experience in your resume")
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
