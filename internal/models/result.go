package models

type SaveDetailsResponse struct {
	Status        string `json:"status"`
	ApplicationID string `json:"application_id"`
}

type SubmitApplicationResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	EmailSent     bool   `json:"email_sent"`
	ApplicationID string `json:"application_id"`
}

type ScoredApplication struct {
	AppID      string  `json:"App_ID"`
	JobTitle   string  `json:"Job_Title"`
	ResumeFile *string `json:"Resume_File"`
	ATSScore   int     `json:"ATS_Score"`
}

type ScheduleItem struct {
	AppID             string `json:"App_ID"`
	Recruiter         string `json:"Recruiter"`
	Interviewer       string `json:"Interviewer"`
	JobTitle          string `json:"Job_Title"`
	Source            string `json:"Source"`
	PhoneStatus       string `json:"Phone_Status"`
	InpersonStatus    string `json:"Inperson_Status"`
	InvitedAt         string `json:"Invited_At"`
	ApplicationStatus string `json:"Application_Status"`
	RSVPStatus        string `json:"Rsvp_Status"`
	Email             string `json:"Email"`
}

// ScheduleUpdateRequest carries only the fields present in the PATCH body;
// nil means "leave unchanged".
type ScheduleUpdateRequest struct {
	Recruiter         *string `json:"recruiter"`
	Interviewer       *string `json:"interviewer"`
	Source            *string `json:"source"`
	PhoneStatus       *string `json:"phone_status"`
	InpersonStatus    *string `json:"inperson_status"`
	ApplicationStatus *string `json:"application_status"`
}

func (r *ScheduleUpdateRequest) Empty() bool {
	return r.Recruiter == nil && r.Interviewer == nil && r.Source == nil &&
		r.PhoneStatus == nil && r.InpersonStatus == nil && r.ApplicationStatus == nil
}

type StatusEmailRequest struct {
	InterviewDate   string `json:"interview_date" validate:"required"`
	InterviewTime   string `json:"interview_time" validate:"required"`
	ProcessStatus   string `json:"process_status" validate:"required"`
	AdditionalNotes string `json:"additional_notes"`
}

type ResumeFilesResponse struct {
	Status              string   `json:"status"`
	UploadFolder        string   `json:"upload_folder"`
	CurrentDirectory    string   `json:"current_directory"`
	TotalFiles          int      `json:"total_files"`
	Files               []string `json:"files"`
	ApplicationIDsFound []string `json:"application_ids_found"`
}
