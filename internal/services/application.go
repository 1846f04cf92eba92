package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"medquest/careers-api/internal/metrics"
	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
)

var ErrInvalidApplication = errors.New("application details must be a JSON object")

const unknownJob = "Unknown Job"

type ApplicationService interface {
	// Save stores the raw form document and returns the new application id.
	Save(raw []byte) (string, error)
	Get(appID string) (json.RawMessage, error)
	// SubmitResume stores the resume and reports whether the confirmation
	// email went out.
	SubmitResume(ctx context.Context, appID string, file *multipart.FileHeader) (bool, error)
}

type applicationService struct {
	appRepo  repositories.ApplicationRepository
	storage  StorageService
	mailer   Mailer
	messages *MessageBuilder
	metrics  *metrics.Manager
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	storage StorageService,
	mailer Mailer,
	messages *MessageBuilder,
	m *metrics.Manager,
) ApplicationService {
	return &applicationService{
		appRepo:  appRepo,
		storage:  storage,
		mailer:   mailer,
		messages: messages,
		metrics:  m,
	}
}

func (s *applicationService) Save(raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return "", ErrInvalidApplication
	}

	jobTitle := gjson.GetBytes(raw, "jobTitle").String()
	if jobTitle == "" {
		jobTitle = unknownJob
	}

	app := &models.Application{
		AppID:         models.NewApplicationID(),
		JobTitle:      jobTitle,
		ApplicantData: string(raw),
	}
	if err := s.appRepo.Create(app); err != nil {
		return "", err
	}

	s.metrics.ApplicationSaved()
	log.Printf("✅ Details saved for application %s\n", app.AppID)
	return app.AppID, nil
}

func (s *applicationService) Get(appID string) (json.RawMessage, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return nil, err
	}

	if !json.Valid([]byte(app.ApplicantData)) {
		return nil, fmt.Errorf("failed to decode stored application data for %s", appID)
	}
	return json.RawMessage(app.ApplicantData), nil
}

func (s *applicationService) SubmitResume(ctx context.Context, appID string, file *multipart.FileHeader) (bool, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return false, err
	}

	filename, err := s.storage.SaveResume(app.AppID, file)
	if err != nil {
		return false, err
	}
	s.metrics.ResumeUploaded(strings.ToLower(filepath.Ext(filename)))
	log.Printf("✅ Resume %s stored for application %s\n", filename, app.AppID)

	profile := app.Profile()
	if profile.Email == "" {
		return false, nil
	}

	jobTitle := profile.JobTitle
	if jobTitle == "" {
		jobTitle = unknownJob
	}
	msg := s.messages.BuildConfirmation(profile.FirstName, jobTitle, app.AppID)
	if err := s.mailer.Send(ctx, profile.Email, msg); err != nil {
		s.metrics.EmailAttempted("confirmation", false)
		log.Printf("⚠️  Confirmation email to %s not sent: %v\n", profile.Email, err)
		return false, nil
	}

	s.metrics.EmailAttempted("confirmation", true)
	return true, nil
}
