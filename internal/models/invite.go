package models

import (
	"strings"
	"time"
)

const (
	StagePending = "Pending"
	StageGo      = "Go"
	StageNoGo    = "No go"

	ApplicationOpen     = "Open"
	ApplicationSelected = "Selected"
	ApplicationRejected = "Rejected"

	RSVPPending  = "Pending"
	RSVPAccepted = "Accepted"
	RSVPDeclined = "Declined"
	RSVPUnknown  = "Unknown"
)

// Invite tracks the interview pipeline of one application.
type Invite struct {
	AppID             string     `gorm:"column:app_id;type:text;primaryKey" json:"app_id"`
	Recruiter         string     `gorm:"type:text" json:"recruiter"`
	Interviewer       string     `gorm:"type:text" json:"interviewer"`
	JobTitle          string     `gorm:"type:text" json:"job_title"`
	Source            string     `gorm:"type:text" json:"source"`
	ResumeStatus      string     `gorm:"type:text" json:"resume_status"`
	PhoneStatus       string     `gorm:"type:text" json:"phone_status"`
	InpersonStatus    string     `gorm:"column:inperson_status;type:text" json:"inperson_status"`
	InvitedAt         *time.Time `json:"invited_at"`
	ApplicationStatus string     `gorm:"type:text" json:"application_status"`
	RSVPToken         string     `gorm:"column:rsvp_token;type:text;index" json:"-"`
	RSVPStatus        string     `gorm:"column:rsvp_status;type:text" json:"rsvp_status"`
	RSVPResponseAt    *time.Time `gorm:"column:rsvp_response_at" json:"rsvp_response_at"`
}

func (Invite) TableName() string {
	return "invites"
}

// NormalizeStageStatus canonicalises "go"/"no go" spellings and keeps any
// other value untouched.
func NormalizeStageStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no go", "nogo", "no-go":
		return StageNoGo
	case "go":
		return StageGo
	}
	return s
}

// StageOutcome buckets a stage status into Go, No go or Pending.
func StageOutcome(s string) string {
	switch NormalizeStageStatus(s) {
	case StageGo:
		return StageGo
	case StageNoGo:
		return StageNoGo
	}
	return StagePending
}

// FinalOutcome canonicalises the application status.
func FinalOutcome(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "selected":
		return ApplicationSelected
	case "rejected":
		return ApplicationRejected
	}
	if s == "" {
		return ApplicationOpen
	}
	return s
}

// DeriveApplicationStatus returns the status implied by the two interview
// stages, or "" when they imply nothing. A No go on either stage wins over
// two Go stages.
func DeriveApplicationStatus(phone, inperson string) string {
	phone, inperson = NormalizeStageStatus(phone), NormalizeStageStatus(inperson)
	if phone == StageNoGo || inperson == StageNoGo {
		return ApplicationRejected
	}
	if phone == StageGo && inperson == StageGo {
		return ApplicationSelected
	}
	return ""
}

// RSVPStatusFor maps the ?response= query value of an RSVP link.
func RSVPStatusFor(response string) string {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "accept":
		return RSVPAccepted
	case "decline":
		return RSVPDeclined
	}
	return RSVPUnknown
}
