package ats

import (
	"html"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

const (
	projectOpenTag  = `<div class="project-section">`
	projectCloseTag = `</div>`

	classKeyword    = "highlight"
	classSkill      = "highlight-skill"
	classExperience = "highlight-experience"
	classEducation  = "highlight-education"

	lookbehindWindow = 100
)

// Render turns resume text into escaped HTML with relevant project blocks
// and matched keywords wrapped in styled elements. Stripping the inserted
// elements yields html.EscapeString(resumeText).
func Render(resumeText string, matchedKeywords []string, report HighlightReport, jobTitle string) string {
	keywords := make([]string, 0, len(matchedKeywords))
	seen := map[string]bool{}
	for _, kw := range matchedKeywords {
		kw = strings.ToLower(kw)
		if len(kw) < 2 || seen[kw] {
			continue
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	relevant := append(append([]string{}, keywords...), ProjectKeywords(jobTitle)...)
	text := wrapProjects(resumeText, findProjectBlocks(resumeText, relevant))

	// Longest first so a short keyword never splits a longer one.
	sort.SliceStable(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})

	skills, experience, education := sectionKeywordSets(report)
	for _, kw := range keywords {
		class := classKeyword
		switch {
		case skills[kw]:
			class = classSkill
		case experience[kw]:
			class = classExperience
		case education[kw]:
			class = classEducation
		}
		text = emphasize(text, kw, class)
	}
	return text
}

// findProjectBlocks returns, per project template, the first block that
// mentions one of the relevant keywords.
func findProjectBlocks(text string, relevant []string) []span {
	var blocks []span
	for _, re := range projectTemplates {
		m, err := re.FindStringMatch(text)
		for err == nil && m != nil {
			g := m.GroupByNumber(1)
			if containsAny(strings.ToLower(g.String()), relevant) {
				blocks = append(blocks, span{start: g.Index, end: g.Index + g.Length, text: g.String()})
				break
			}
			m, err = re.FindNextMatch(m)
		}
	}
	return blocks
}

// wrapProjects escapes text and wraps each block in a project marker. Blocks
// are applied from the end of the document backwards; a block overlapping
// one already applied is dropped.
func wrapProjects(text string, blocks []span) string {
	escaped := html.EscapeString(text)
	if len(blocks) == 0 {
		return escaped
	}

	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].start > blocks[j].start })
	runes := []rune(text)
	boundary := len(runes) + 1
	for _, b := range blocks {
		if b.end > boundary || b.start >= b.end {
			continue
		}
		escStart := len(html.EscapeString(string(runes[:b.start])))
		escEnd := escStart + len(html.EscapeString(b.text))
		escaped = escaped[:escStart] + projectOpenTag + escaped[escStart:escEnd] + projectCloseTag + escaped[escEnd:]
		boundary = b.start
	}
	return escaped
}

// emphasize wraps whole-word, case-insensitive occurrences of keyword that
// are not already inside a tag or a highlight span.
func emphasize(text, keyword, class string) string {
	re, err := wordPattern(keyword)
	if err != nil {
		return text
	}
	runes := []rune(text)
	out, err := re.ReplaceFunc(text, func(m regexp2.Match) string {
		if insideMarkup(runes, m.Index) {
			return m.String()
		}
		return `<span class="` + class + `">` + m.String() + `</span>`
	}, -1, -1)
	if err != nil {
		return text
	}
	return out
}

// insideMarkup inspects the window before a match to decide whether the
// match sits inside an open highlight span, a tag or a character entity.
func insideMarkup(runes []rune, at int) bool {
	window := string(runes[max(0, at-lookbehindWindow):at])
	if strings.LastIndex(window, "<span") > strings.LastIndex(window, "</span>") {
		return true
	}
	if strings.LastIndex(window, "<") > strings.LastIndex(window, ">") {
		return true
	}
	// Escaped text only carries "&" as the start of an entity.
	amp := strings.LastIndex(window, "&")
	return amp >= 0 && !strings.ContainsAny(window[amp:], "; \t\n")
}

func sectionKeywordSets(report HighlightReport) (skills, experience, education map[string]bool) {
	collect := func(sections []SectionMatch) map[string]bool {
		set := map[string]bool{}
		for _, s := range sections {
			for _, kw := range s.HighlightedKeywords {
				set[strings.ToLower(kw)] = true
			}
		}
		return set
	}
	return collect(report.Skills), collect(report.Experience), collect(report.Education)
}
