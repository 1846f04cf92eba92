package ats

import (
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds every template match against resume text.
const matchTimeout = 2 * time.Second

// Section templates are tried in order and the first one that matches wins.
// They rely on lazy quantifiers and lookahead terminators, so they are
// compiled with regexp2 rather than RE2.
var (
	skillsTemplates = compileTemplates(
		`skills?\s*[:]?\s*\n(.+?)(?=\n\n|\n[A-Z]|\n[0-9]|$)`,
		`technical\s+skills?\s*[:]?\s*\n(.+?)(?=\n\n|\n[A-Z]|$)`,
		`core\s+skills?\s*[:]?\s*\n(.+?)(?=\n\n|\n[A-Z]|$)`,
		`technologies?\s*[:]?\s*\n(.+?)(?=\n\n|\n[A-Z]|$)`,
	)

	experienceTemplates = compileTemplates(
		`experience\s*[:]?\s*\n(.+?)(?=\n\n[A-Z][a-z]+\s*[:]?|\n\nEducation|\n\nSkills|$)`,
		`work\s+experience\s*[:]?\s*\n(.+?)(?=\n\n[A-Z][a-z]+\s*[:]?|\n\nEducation|\n\nSkills|$)`,
		`professional\s+experience\s*[:]?\s*\n(.+?)(?=\n\n[A-Z][a-z]+\s*[:]?|\n\nEducation|\n\nSkills|$)`,
	)

	educationTemplates = compileTemplates(
		`education\s*[:]?\s*\n(.+?)(?=\n\n[A-Z][a-z]+\s*[:]?|\n\nSkills|$)`,
		`academic\s+qualification\s*[:]?\s*\n(.+?)(?=\n\n[A-Z][a-z]+\s*[:]?|\n\nSkills|$)`,
	)

	projectTemplates = compileTemplates(
		`(project[s]?[:]?\s*\n.*?)(?=\n\n|\n[A-Z][a-z]+|$)`,
		`(key\s+project[s]?[:]?\s*\n.*?)(?=\n\n|\n[A-Z][a-z]+|$)`,
		`(notable\s+project[s]?[:]?\s*\n.*?)(?=\n\n|\n[A-Z][a-z]+|$)`,
		`(portfolio\s+project[s]?[:]?\s*\n.*?)(?=\n\n|\n[A-Z][a-z]+|$)`,
	)
)

func compileTemplates(exprs ...string) []*regexp2.Regexp {
	out := make([]*regexp2.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re := regexp2.MustCompile(expr, regexp2.IgnoreCase|regexp2.Singleline)
		re.MatchTimeout = matchTimeout
		out = append(out, re)
	}
	return out
}

// wordPattern matches term as a whole word, ignoring case.
func wordPattern(term string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(`\b`+regexp2.Escape(term)+`\b`, regexp2.IgnoreCase)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = matchTimeout
	return re, nil
}

// firstCapture returns group 1 of the first template that matches text.
func firstCapture(templates []*regexp2.Regexp, text string) (string, bool) {
	for _, re := range templates {
		m, err := re.FindStringMatch(text)
		if err != nil || m == nil {
			continue
		}
		return m.GroupByNumber(1).String(), true
	}
	return "", false
}

// span is a rune range [start, end) within a text.
type span struct {
	start, end int
	text       string
}
