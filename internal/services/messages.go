package services

import (
	"fmt"
	"strings"
	"time"
)

// Message is a plain-text email ready to send.
type Message struct {
	Subject string
	Body    string
	// ReplyTo asks the mailer to set Reply-To to the sender address.
	ReplyTo bool
}

// StatusUpdate carries the recruiter-provided details of a status email.
type StatusUpdate struct {
	ApplicantName   string
	JobTitle        string
	AppID           string
	ProcessStatus   string
	InterviewDate   string
	InterviewTime   string
	AdditionalNotes string
	RSVPToken       string
}

type MessageBuilder struct {
	publicBaseURL string
}

func NewMessageBuilder(publicBaseURL string) *MessageBuilder {
	return &MessageBuilder{publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// BuildConfirmation is sent after the applicant uploads a resume.
func (mb *MessageBuilder) BuildConfirmation(applicantName, jobTitle, appID string) Message {
	return Message{
		Subject: fmt.Sprintf("Medquest Application Confirmed: %s - %s", jobTitle, applicantName),
		Body: fmt.Sprintf(`Dear %s,

Thank you for applying for the %s position at Medquest.

Your application has been successfully received and assigned the ID: %s.

We will review your details and resume, and you should hear from our HR team within the next 2-4 weeks.

Sincerely,
The Medquest Careers Team
`, applicantName, jobTitle, appID),
	}
}

// BuildInterviewInvite tells the applicant their resume was shortlisted.
func (mb *MessageBuilder) BuildInterviewInvite(applicantName, jobTitle string) Message {
	return Message{
		Subject: fmt.Sprintf("Your Resume is Shortlisted: Interview Invitation for %s", jobTitle),
		Body: fmt.Sprintf(`Dear %s,

We are pleased to inform you that your resume for the %s position has been shortlisted for the next stage.

You will be having an interview call with our HR team within the next week. Please keep your phone lines open.

We look forward to speaking with you.

Sincerely,
The Medquest Careers Team
`, applicantName, jobTitle),
	}
}

// BuildStatusUpdate schedules an interview and embeds the RSVP links.
func (mb *MessageBuilder) BuildStatusUpdate(u StatusUpdate) Message {
	date, clock := FormatInterviewSlot(u.InterviewDate, u.InterviewTime)

	token := u.RSVPToken
	if token == "" {
		token = "TOKEN"
	}
	rsvp := fmt.Sprintf("%s/rsvp/%s", mb.publicBaseURL, token)

	return Message{
		Subject: fmt.Sprintf("Application Update - %s - %s", u.JobTitle, u.AppID),
		Body: fmt.Sprintf(`Dear %s,

Thank you for your interest in the %s position at Medquest.

%s

Interview Details:
- Date: %s
- Time: %s

Please confirm your availability for the scheduled interview by choosing one of the options below:

Accept: %s?response=accept
Decline: %s?response=decline
Suggest another time: You can reply to this email with preferred slots.

%s

We look forward to hearing from you and potentially welcoming you to our team.

Best regards,
The Medquest Careers Team
`, u.ApplicantName, u.JobTitle, u.ProcessStatus, date, clock, rsvp, rsvp, u.AdditionalNotes),
		ReplyTo: true,
	}
}

// FormatInterviewSlot renders "2006-01-02" and "15:04" as "January 02, 2006"
// and "03:04 PM". If either value does not parse, both are returned as given.
func FormatInterviewSlot(date, clock string) (string, string) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date, clock
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return date, clock
	}
	return d.Format("January 02, 2006"), t.Format("03:04 PM")
}
