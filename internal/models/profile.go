package models

import (
	"strings"

	"github.com/tidwall/gjson"
)

type WorkEntry struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Branch      string `json:"branch"`
	Institution string `json:"institution"`
	Grade       string `json:"grade"`
}

// ProfileField is one key/value pair of a flat form section, kept in the
// order the applicant's form submitted it.
type ProfileField struct {
	Key   string
	Value string
}

type ProfileSection struct {
	Name   string
	Fields []ProfileField
}

// ApplicantProfile is the typed view of the applicant_data JSON document.
// Missing keys resolve to empty strings here; presentation layers decide
// whether to show "N/A" instead.
type ApplicantProfile struct {
	JobTitle       string
	JobDescription string
	FirstName      string
	Email          string
	Source         string

	Work       []WorkEntry
	WorkIsList bool
	WorkStatus string

	Education       []EducationEntry
	EducationIsList bool
	EducationStatus string

	Sections []ProfileSection
}

var flatSections = []string{"personal", "communication", "financial", "onboarding"}

// ParseApplicantProfile resolves the stored form document. It never fails:
// malformed or partial documents produce a profile with empty fields.
func ParseApplicantProfile(raw []byte) ApplicantProfile {
	doc := gjson.ParseBytes(raw)

	profile := ApplicantProfile{
		JobTitle:       doc.Get("jobTitle").String(),
		JobDescription: doc.Get("jobDescription").String(),
		FirstName:      "Applicant",
		Email:          doc.Get("communication.email").String(),
	}

	if name := doc.Get("personal.firstName"); name.Exists() {
		profile.FirstName = name.String()
	}

	source := doc.Get("source").String()
	if source == "" {
		source = doc.Get("referralSource").String()
	}
	profile.Source = strings.TrimSpace(source)

	work := doc.Get("work")
	if work.IsArray() {
		profile.WorkIsList = true
		profile.Work = []WorkEntry{}
		for _, item := range work.Array() {
			profile.Work = append(profile.Work, WorkEntry{
				Title:     item.Get("title").String(),
				Company:   item.Get("company").String(),
				StartDate: item.Get("startDate").String(),
				EndDate:   item.Get("endDate").String(),
			})
		}
	} else {
		profile.WorkStatus = work.Get("status").String()
	}

	education := doc.Get("education")
	if education.IsArray() {
		profile.EducationIsList = true
		profile.Education = []EducationEntry{}
		for _, item := range education.Array() {
			profile.Education = append(profile.Education, EducationEntry{
				Degree:      item.Get("degree").String(),
				Branch:      item.Get("branch").String(),
				Institution: item.Get("institution").String(),
				Grade:       item.Get("grade").String(),
			})
		}
	} else {
		profile.EducationStatus = education.Get("status").String()
	}

	for _, name := range flatSections {
		section := doc.Get(name)
		if !section.IsObject() {
			continue
		}
		ps := ProfileSection{Name: name}
		section.ForEach(func(key, value gjson.Result) bool {
			ps.Fields = append(ps.Fields, ProfileField{Key: key.String(), Value: value.String()})
			return true
		})
		profile.Sections = append(profile.Sections, ps)
	}

	return profile
}

// WorkSkipped reports whether the applicant explicitly skipped the work
// experience step.
func (p ApplicantProfile) WorkSkipped() bool {
	return !p.WorkIsList && p.WorkStatus == "Skipped"
}
