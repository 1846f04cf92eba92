package ats

import (
	"strings"

	"medquest/careers-api/internal/models"
)

const (
	contextRadius      = 50
	skillsPreviewLen   = 200
	educationPrevLen   = 200
	experiencePrevLen  = 300
	resumePreviewLen   = 500
	noResumeTextReason = "Could not extract text from resume"
)

// Highlight locates the parts of a resume that contributed to its score.
// It is deterministic: keywords are visited in sorted order.
func Highlight(resumeText string, job JobPosting, profile models.ApplicantProfile) HighlightReport {
	report := HighlightReport{
		Skills:          []SectionMatch{},
		Experience:      []SectionMatch{},
		Education:       []SectionMatch{},
		Keywords:        []KeywordContext{},
		MatchedKeywords: []string{},
	}
	if resumeText == "" {
		report.Error = noResumeTextReason
		return report
	}

	runes := []rune(resumeText)
	var found []string
	for _, keyword := range TargetSkills(job.Description).Sorted() {
		re, err := wordPattern(keyword)
		if err != nil {
			continue
		}
		m, err := re.FindStringMatch(resumeText)
		if err != nil || m == nil {
			continue
		}
		found = append(found, keyword)
		start := max(0, m.Index-contextRadius)
		end := min(len(runes), m.Index+m.Length+contextRadius)
		report.Keywords = append(report.Keywords, KeywordContext{
			Keyword:  keyword,
			Context:  strings.ReplaceAll(string(runes[start:end]), "\n", " "),
			Position: m.Index,
		})
	}

	if text, ok := firstCapture(skillsTemplates, resumeText); ok {
		if kws := containedIn(text, found); len(kws) > 0 {
			report.Skills = append(report.Skills, SectionMatch{
				Section:             truncate(text, skillsPreviewLen),
				HighlightedKeywords: kws,
			})
		}
	}

	if text, ok := firstCapture(experienceTemplates, resumeText); ok {
		kws := containedIn(text, found)
		var titles []string
		for _, w := range profile.Work {
			titles = append(titles, containedIn(text, []string{w.Title, w.Company})...)
		}
		if len(kws) > 0 || len(titles) > 0 {
			report.Experience = append(report.Experience, SectionMatch{
				Section:             truncate(text, experiencePrevLen),
				HighlightedKeywords: nonNil(kws),
				JobTitles:           titles,
			})
		}
	}

	if text, ok := firstCapture(educationTemplates, resumeText); ok {
		var terms []string
		for _, e := range profile.Education {
			terms = append(terms, containedIn(text, []string{e.Degree, e.Branch, e.Institution})...)
		}
		var labels []string
		// Only the frontend and backend families carry display labels.
		if family, ok := matchRoleFamily(strings.ToLower(job.Title)); ok && family.labels != nil {
			if containsAny(strings.ToLower(text), family.schoolTerms) {
				labels = append(labels, family.labels...)
			}
		}
		if len(labels) > 0 || len(terms) > 0 {
			report.Education = append(report.Education, SectionMatch{
				Section:             truncate(text, educationPrevLen),
				HighlightedKeywords: nonNil(labels),
				EducationTerms:      terms,
			})
		}
	}

	matched := TokenSet{}
	for _, k := range found {
		matched[k] = struct{}{}
	}
	report.MatchedKeywords = matched.Sorted()
	report.ResumeTextPreview = truncate(resumeText, resumePreviewLen)
	return report
}

// containedIn returns the non-empty terms that occur in text, ignoring case.
func containedIn(text string, terms []string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			out = append(out, t)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
