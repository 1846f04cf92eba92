package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Application struct {
	AppID         string    `gorm:"column:app_id;type:text;primaryKey" json:"app_id"`
	JobTitle      string    `gorm:"type:text;not null" json:"job_title"`
	ApplicantData string    `gorm:"type:text;not null" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Application) TableName() string {
	return "applications"
}

// Profile resolves the stored applicant_data document.
func (a *Application) Profile() ApplicantProfile {
	return ParseApplicantProfile([]byte(a.ApplicantData))
}

// NewApplicationID returns an id of the form MQ-1a2b3c4d.
func NewApplicationID() string {
	return "MQ-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewRSVPToken returns a 32 character hex token for RSVP links.
func NewRSVPToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
