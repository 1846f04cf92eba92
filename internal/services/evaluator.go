package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"medquest/careers-api/internal/ats"
	"medquest/careers-api/internal/metrics"
	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
)

// ErrExtractionUnavailable is returned when no PDF reader can be used.
var ErrExtractionUnavailable = errors.New("PDF extraction library not available")

// shortlistThreshold is the score an application must exceed to appear in
// the filtered list.
const shortlistThreshold = 60

// ScoreDetails is the score breakdown of one application plus its identity.
type ScoreDetails struct {
	ats.ScoreBreakdown
	JobTitle      string `json:"job_title"`
	ApplicationID string `json:"application_id"`
	HasResume     bool   `json:"has_resume"`
}

// ResumeHighlights is the highlight report of a stored PDF resume.
type ResumeHighlights struct {
	ApplicationID          string              `json:"application_id"`
	JobTitle               string              `json:"job_title"`
	Highlights             ats.HighlightReport `json:"highlights"`
	ATSScore               int                 `json:"ats_score"`
	MatchedKeywordsCount   int                 `json:"matched_keywords_count"`
	PDFExtractionAvailable bool                `json:"pdf_extraction_available"`
}

// HighlightedResume feeds the highlighted resume page.
type HighlightedResume struct {
	ApplicationID   string
	JobTitle        string
	ATSScore        int
	MatchedKeywords int
	Content         template.HTML
}

// ScoreBadgeColor is green from 80, yellow from 70 and red below.
func (h HighlightedResume) ScoreBadgeColor() string {
	switch {
	case h.ATSScore >= 80:
		return "#28a745"
	case h.ATSScore >= 70:
		return "#ffc107"
	default:
		return "#dc3545"
	}
}

type ATSService interface {
	ScoreDetails(ctx context.Context, appID string) (*ScoreDetails, error)
	ScoredApplications(ctx context.Context) ([]models.ScoredApplication, error)
	Highlights(ctx context.Context, appID string) (*ResumeHighlights, error)
	HighlightedResume(ctx context.Context, appID string) (*HighlightedResume, error)
	// ResumeFile returns the stored resume name and absolute path.
	ResumeFile(ctx context.Context, appID string) (string, string, error)
}

type atsService struct {
	appRepo     repositories.ApplicationRepository
	storage     StorageService
	pdfParser   PDFParserService
	scorer      *ats.Scorer
	metrics     *metrics.Manager
	concurrency int
}

func NewATSService(
	appRepo repositories.ApplicationRepository,
	storage StorageService,
	pdfParser PDFParserService,
	scorer *ats.Scorer,
	m *metrics.Manager,
	concurrency int,
) ATSService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &atsService{
		appRepo:     appRepo,
		storage:     storage,
		pdfParser:   pdfParser,
		scorer:      scorer,
		metrics:     m,
		concurrency: concurrency,
	}
}

func (s *atsService) ScoreDetails(ctx context.Context, appID string) (*ScoreDetails, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return nil, err
	}

	resume, err := s.optionalResume(app.AppID)
	if err != nil {
		return nil, err
	}

	return &ScoreDetails{
		ScoreBreakdown: s.score(app, resume),
		JobTitle:       app.JobTitle,
		ApplicationID:  app.AppID,
		HasResume:      resume != "",
	}, nil
}

// ScoredApplications scores every application, sorted by score descending.
// Applications without a resume score 0 and are not run through the scorer.
func (s *atsService) ScoredApplications(ctx context.Context) ([]models.ScoredApplication, error) {
	apps, err := s.appRepo.FindAll()
	if err != nil {
		return nil, err
	}

	results := make([]models.ScoredApplication, len(apps))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range apps {
		app := &apps[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			resume, err := s.optionalResume(app.AppID)
			if err != nil {
				return err
			}

			result := models.ScoredApplication{AppID: app.AppID, JobTitle: app.JobTitle}
			if resume != "" {
				result.ResumeFile = &resume
				result.ATSScore = s.score(app, resume).Score
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to score applications: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].ATSScore > results[j].ATSScore })
	return results, nil
}

// Shortlist keeps applications with a resume scoring above the shortlist
// threshold, preserving their order.
func Shortlist(apps []models.ScoredApplication) []models.ScoredApplication {
	filtered := []models.ScoredApplication{}
	for _, a := range apps {
		if a.ResumeFile != nil && a.ATSScore > shortlistThreshold {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func (s *atsService) Highlights(ctx context.Context, appID string) (*ResumeHighlights, error) {
	app, text, resume, err := s.resumeText(appID)
	if err != nil {
		return nil, err
	}

	job := jobPosting(app)
	profile := app.Profile()
	report := ats.Highlight(text, job, profile)

	return &ResumeHighlights{
		ApplicationID:          app.AppID,
		JobTitle:               app.JobTitle,
		Highlights:             report,
		ATSScore:               s.score(app, resume).Score,
		MatchedKeywordsCount:   len(report.MatchedKeywords),
		PDFExtractionAvailable: s.pdfParser.Available(),
	}, nil
}

func (s *atsService) HighlightedResume(ctx context.Context, appID string) (*HighlightedResume, error) {
	app, text, resume, err := s.resumeText(appID)
	if err != nil {
		return nil, err
	}

	job := jobPosting(app)
	report := ats.Highlight(text, job, app.Profile())
	rendered := ats.Render(text, report.MatchedKeywords, report, app.JobTitle)

	return &HighlightedResume{
		ApplicationID:   app.AppID,
		JobTitle:        app.JobTitle,
		ATSScore:        s.score(app, resume).Score,
		MatchedKeywords: len(report.MatchedKeywords),
		// Render escapes the resume text itself.
		Content: template.HTML(rendered),
	}, nil
}

func (s *atsService) ResumeFile(ctx context.Context, appID string) (string, string, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return "", "", err
	}

	name, err := s.storage.FindResume(app.AppID)
	if err != nil {
		return "", "", err
	}
	return name, s.storage.GetFilePath(name), nil
}

// resumeText loads the application and the text of its PDF resume.
func (s *atsService) resumeText(appID string) (*models.Application, string, string, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return nil, "", "", err
	}

	resume, err := s.storage.FindResume(app.AppID)
	if err != nil {
		return nil, "", "", err
	}

	if strings.ToLower(filepath.Ext(resume)) != ".pdf" {
		return nil, "", "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, resume)
	}

	if !s.pdfParser.Available() {
		s.metrics.ExtractionFailed("unavailable")
		return nil, "", "", ErrExtractionUnavailable
	}

	text, err := s.pdfParser.ExtractText(s.storage.GetFilePath(resume))
	if err != nil {
		reason := "failed"
		if errors.Is(err, ErrNoText) {
			reason = "no_text"
		}
		s.metrics.ExtractionFailed(reason)
		log.Printf("⚠️  Could not extract text from resume %s: %v\n", resume, err)
		return nil, "", "", err
	}

	return app, text, resume, nil
}

// optionalResume returns the stored resume name, or "" when there is none.
func (s *atsService) optionalResume(appID string) (string, error) {
	name, err := s.storage.FindResume(appID)
	if errors.Is(err, ErrResumeNotFound) {
		return "", nil
	}
	return name, err
}

func (s *atsService) score(app *models.Application, resume string) ats.ScoreBreakdown {
	start := time.Now()
	result := s.scorer.Score(jobPosting(app), app.Profile(), resume)
	s.metrics.ScoreComputed(result.Score, time.Since(start))
	return result
}

func jobPosting(app *models.Application) ats.JobPosting {
	return ats.JobPosting{
		Title:       app.JobTitle,
		Description: app.Profile().JobDescription,
	}
}
