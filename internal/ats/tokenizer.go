package ats

import (
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z+.#/-]{1,}`)

// TokenSet is an unordered set of lowercase tokens.
type TokenSet map[string]struct{}

func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Intersect returns the tokens present in both sets.
func (s TokenSet) Intersect(other TokenSet) TokenSet {
	out := TokenSet{}
	for t := range s {
		if other.Has(t) {
			out[t] = struct{}{}
		}
	}
	return out
}

// Difference returns the tokens of s missing from other.
func (s TokenSet) Difference(other TokenSet) TokenSet {
	out := TokenSet{}
	for t := range s {
		if !other.Has(t) {
			out[t] = struct{}{}
		}
	}
	return out
}

// Sorted returns the tokens in ascending order. Never nil.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// rawTokens lowercases text and collects every word-like token.
func rawTokens(text string) TokenSet {
	set := TokenSet{}
	for _, t := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		set[t] = struct{}{}
	}
	return set
}

// Tokenize extracts the lowercase tokens of text, minus stopwords and
// single characters.
func Tokenize(text string) TokenSet {
	set := rawTokens(text)
	for t := range set {
		if _, stop := stopwords[t]; stop || len(t) < 2 {
			delete(set, t)
		}
	}
	return set
}

// TargetSkills returns the catalog skills mentioned in a job description.
func TargetSkills(description string) TokenSet {
	out := TokenSet{}
	for t := range Tokenize(description) {
		if IsCatalogKeyword(t) {
			out[t] = struct{}{}
		}
	}
	return out
}
