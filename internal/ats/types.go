package ats

// JobPosting is the role an application is scored against.
type JobPosting struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Breakdown struct {
	BaseScore               int `json:"base_score"`
	SeniorityBonus          int `json:"seniority_bonus"`
	RoleFamilyBonus         int `json:"role_family_bonus"`
	KeywordMatchScore       int `json:"keyword_match_score"`
	WorkExperienceScore     int `json:"work_experience_score"`
	EducationRelevanceScore int `json:"education_relevance_score"`
	ResumeTypeScore         int `json:"resume_type_score"`
	Jitter                  int `json:"jitter"`
}

// Subtotal is the sum of every stage before clamping and jitter.
func (b Breakdown) Subtotal() int {
	return b.BaseScore + b.SeniorityBonus + b.RoleFamilyBonus + b.KeywordMatchScore +
		b.WorkExperienceScore + b.EducationRelevanceScore + b.ResumeTypeScore
}

type ScoreBreakdown struct {
	Score               int       `json:"score"`
	Breakdown           Breakdown `json:"breakdown"`
	MatchedKeywords     []string  `json:"matched_keywords"`
	MissingKeywords     []string  `json:"missing_keywords"`
	TargetKeywords      []string  `json:"target_keywords"`
	CandidateKeywords   []string  `json:"candidate_keywords"`
	Suggestions         []string  `json:"suggestions"`
	WorkExperienceCount int       `json:"work_experience_count"`
	EducationCount      int       `json:"education_count"`
}

type SectionMatch struct {
	Section             string   `json:"section"`
	HighlightedKeywords []string `json:"highlighted_keywords"`
	JobTitles           []string `json:"job_titles,omitempty"`
	EducationTerms      []string `json:"education_terms,omitempty"`
}

type KeywordContext struct {
	Keyword  string `json:"keyword"`
	Context  string `json:"context"`
	Position int    `json:"position"`
}

type HighlightReport struct {
	Skills            []SectionMatch   `json:"skills"`
	Experience        []SectionMatch   `json:"experience"`
	Education         []SectionMatch   `json:"education"`
	Keywords          []KeywordContext `json:"keywords"`
	MatchedKeywords   []string         `json:"matched_keywords"`
	ResumeTextPreview string           `json:"resume_text_preview,omitempty"`
	Error             string           `json:"error,omitempty"`
}
