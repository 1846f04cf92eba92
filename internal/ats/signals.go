package ats

import (
	"strings"

	"medquest/careers-api/internal/models"
)

// CandidateSignals is the searchable text pulled from an applicant profile.
type CandidateSignals struct {
	// Terms holds work titles/companies followed by education
	// degree/branch/institution, in form order.
	Terms  []string
	Blob   string
	Tokens TokenSet
}

func ExtractSignals(profile models.ApplicantProfile) CandidateSignals {
	var terms []string
	for _, w := range profile.Work {
		terms = append(terms, w.Title, w.Company)
	}
	for _, e := range profile.Education {
		terms = append(terms, e.Degree, e.Branch, e.Institution)
	}

	blob := strings.ToLower(strings.Join(terms, " "))
	return CandidateSignals{
		Terms:  terms,
		Blob:   blob,
		Tokens: rawTokens(blob),
	}
}
