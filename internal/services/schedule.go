package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"medquest/careers-api/internal/metrics"
	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
)

var (
	ErrNoApplicantEmail  = errors.New("applicant email address not found")
	ErrSendFailed        = errors.New("failed to send email via SMTP")
	ErrNoUpdatableFields = errors.New("no updatable fields provided")
)

const defaultRecruiter = "Recruiter"

type ScheduleService interface {
	List(ctx context.Context) ([]models.ScheduleItem, error)
	Update(ctx context.Context, appID string, req models.ScheduleUpdateRequest) error
	// InviteApplicant emails the interview invite and records the schedule
	// row. It returns the applicant's first name.
	InviteApplicant(ctx context.Context, appID, recruiter string) (string, error)
	SendStatusEmail(ctx context.Context, appID string, req models.StatusEmailRequest) (string, error)
	// RecordRSVP stores the response behind an RSVP token and returns the
	// application id with the recorded status.
	RecordRSVP(ctx context.Context, token, response string) (string, string, error)
	ApplicantEmail(ctx context.Context, appID string) (string, error)
}

type scheduleService struct {
	appRepo    repositories.ApplicationRepository
	inviteRepo repositories.InviteRepository
	mailer     Mailer
	messages   *MessageBuilder
	exports    ExportWorker
	metrics    *metrics.Manager
	now        func() time.Time
}

func NewScheduleService(
	appRepo repositories.ApplicationRepository,
	inviteRepo repositories.InviteRepository,
	mailer Mailer,
	messages *MessageBuilder,
	exports ExportWorker,
	m *metrics.Manager,
) ScheduleService {
	return &scheduleService{
		appRepo:    appRepo,
		inviteRepo: inviteRepo,
		mailer:     mailer,
		messages:   messages,
		exports:    exports,
		metrics:    m,
		now:        time.Now,
	}
}

// List joins every application with its schedule row, most recently
// invited first; applications never invited come last.
func (s *scheduleService) List(ctx context.Context) ([]models.ScheduleItem, error) {
	apps, err := s.appRepo.FindAll()
	if err != nil {
		return nil, err
	}
	invites, err := s.inviteRepo.FindAll()
	if err != nil {
		return nil, err
	}

	byApp := make(map[string]*models.Invite, len(invites))
	for i := range invites {
		byApp[invites[i].AppID] = &invites[i]
	}

	type entry struct {
		item      models.ScheduleItem
		invitedAt time.Time
	}
	entries := make([]entry, 0, len(apps))
	for i := range apps {
		app := &apps[i]
		inv := models.Invite{}
		if found := byApp[app.AppID]; found != nil {
			inv = *found
		}

		e := entry{item: models.ScheduleItem{
			AppID:             app.AppID,
			Recruiter:         inv.Recruiter,
			Interviewer:       inv.Interviewer,
			JobTitle:          orDefault(inv.JobTitle, app.JobTitle),
			Source:            inv.Source,
			PhoneStatus:       orDefault(inv.PhoneStatus, models.StagePending),
			InpersonStatus:    orDefault(inv.InpersonStatus, models.StagePending),
			ApplicationStatus: orDefault(inv.ApplicationStatus, models.ApplicationOpen),
			RSVPStatus:        orDefault(inv.RSVPStatus, models.RSVPPending),
			Email:             app.Profile().Email,
		}}
		if inv.InvitedAt != nil {
			e.invitedAt = *inv.InvitedAt
			e.item.InvitedAt = inv.InvitedAt.UTC().Format(invitedAtLayout)
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].invitedAt.After(entries[j].invitedAt) })

	items := make([]models.ScheduleItem, len(entries))
	for i, e := range entries {
		items[i] = e.item
	}
	return items, nil
}

// Update applies a partial schedule change. Stage statuses are normalised;
// unless the request sets application_status, a No go on either stage
// rejects the application and Go on both selects it.
func (s *scheduleService) Update(ctx context.Context, appID string, req models.ScheduleUpdateRequest) error {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.Recruiter != nil {
		fields["recruiter"] = *req.Recruiter
	}
	if req.Interviewer != nil {
		fields["interviewer"] = *req.Interviewer
	}
	if req.Source != nil {
		fields["source"] = *req.Source
	}
	if req.PhoneStatus != nil {
		fields["phone_status"] = models.NormalizeStageStatus(*req.PhoneStatus)
	}
	if req.InpersonStatus != nil {
		fields["inperson_status"] = models.NormalizeStageStatus(*req.InpersonStatus)
	}

	if req.ApplicationStatus != nil {
		fields["application_status"] = *req.ApplicationStatus
	} else {
		var phone, inperson string
		existing, err := s.inviteRepo.FindByAppID(appID)
		switch {
		case err == nil:
			phone, inperson = existing.PhoneStatus, existing.InpersonStatus
		case !errors.Is(err, repositories.ErrInviteNotFound):
			return err
		}
		if req.PhoneStatus != nil {
			phone = *req.PhoneStatus
		}
		if req.InpersonStatus != nil {
			inperson = *req.InpersonStatus
		}
		if status := models.DeriveApplicationStatus(phone, inperson); status != "" {
			fields["application_status"] = status
		}
	}

	if len(fields) == 0 {
		return ErrNoUpdatableFields
	}

	if _, err := s.inviteRepo.EnsureExists(app.AppID, app.JobTitle); err != nil {
		return err
	}
	if err := s.inviteRepo.Update(app.AppID, fields); err != nil {
		return err
	}

	log.Printf("✅ Schedule updated for %s (%d fields)\n", app.AppID, len(fields))
	s.exports.EnqueueRefresh()
	return nil
}

func (s *scheduleService) InviteApplicant(ctx context.Context, appID, recruiter string) (string, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return "", err
	}

	profile := app.Profile()
	if profile.Email == "" {
		return "", ErrNoApplicantEmail
	}

	msg := s.messages.BuildInterviewInvite(profile.FirstName, app.JobTitle)
	if err := s.mailer.Send(ctx, profile.Email, msg); err != nil {
		s.metrics.EmailAttempted("invite", false)
		log.Printf("❌ Invite email to %s failed: %v\n", profile.Email, err)
		return "", fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	s.metrics.EmailAttempted("invite", true)

	if recruiter == "" {
		recruiter = defaultRecruiter
	}
	now := s.now()
	invite := &models.Invite{
		AppID:             app.AppID,
		Recruiter:         recruiter,
		JobTitle:          app.JobTitle,
		Source:            profile.Source,
		ResumeStatus:      models.StageGo,
		PhoneStatus:       models.StagePending,
		InpersonStatus:    models.StagePending,
		InvitedAt:         &now,
		ApplicationStatus: models.ApplicationOpen,
		RSVPStatus:        models.RSVPPending,
	}
	if err := s.inviteRepo.Upsert(invite); err != nil {
		log.Printf("⚠️  Failed to write invite record for %s: %v\n", app.AppID, err)
	}

	return profile.FirstName, nil
}

func (s *scheduleService) SendStatusEmail(ctx context.Context, appID string, req models.StatusEmailRequest) (string, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return "", err
	}

	profile := app.Profile()
	if profile.Email == "" {
		return "", ErrNoApplicantEmail
	}

	token, err := s.ensureToken(app)
	if err != nil {
		log.Printf("⚠️  Failed to persist RSVP token for %s: %v\n", app.AppID, err)
		token = models.NewRSVPToken()
	}

	msg := s.messages.BuildStatusUpdate(StatusUpdate{
		ApplicantName:   profile.FirstName,
		JobTitle:        app.JobTitle,
		AppID:           app.AppID,
		ProcessStatus:   req.ProcessStatus,
		InterviewDate:   req.InterviewDate,
		InterviewTime:   req.InterviewTime,
		AdditionalNotes: req.AdditionalNotes,
		RSVPToken:       token,
	})
	if err := s.mailer.Send(ctx, profile.Email, msg); err != nil {
		s.metrics.EmailAttempted("status", false)
		log.Printf("❌ Status email to %s failed: %v\n", profile.Email, err)
		return "", fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	s.metrics.EmailAttempted("status", true)

	return profile.FirstName, nil
}

func (s *scheduleService) ensureToken(app *models.Application) (string, error) {
	if _, err := s.inviteRepo.EnsureExists(app.AppID, app.JobTitle); err != nil {
		return "", err
	}
	return s.inviteRepo.EnsureRSVPToken(app.AppID, models.NewRSVPToken)
}

func (s *scheduleService) RecordRSVP(ctx context.Context, token, response string) (string, string, error) {
	invite, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		return "", "", err
	}

	status := models.RSVPStatusFor(response)
	if err := s.inviteRepo.SetRSVP(invite.AppID, status, s.now()); err != nil {
		return "", "", err
	}

	s.metrics.RSVPRecorded(status)
	log.Printf("✅ RSVP %s recorded for %s\n", status, invite.AppID)
	return invite.AppID, status, nil
}

func (s *scheduleService) ApplicantEmail(ctx context.Context, appID string) (string, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return "", err
	}

	email := app.Profile().Email
	if email == "" {
		return "", ErrNoApplicantEmail
	}
	return email, nil
}
