package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"medquest/careers-api/internal/metrics"
	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
)

var ErrNoApplications = errors.New("no applications found in the database")

const (
	SheetAll       = "All Applications"
	SheetShortlist = "Shortlisted"
	SheetNoGo      = "No go"
	SheetSelected  = "Selected"
	SheetRejected  = "Rejected (Final)"

	invitedAtLayout = "2006-01-02 15:04:05"
)

// Cell is one column of a flattened application row.
type Cell struct {
	Column string
	Value  string
}

// Row is a flattened application in column order.
type Row []Cell

func (r Row) Get(column string) string {
	for _, c := range r {
		if c.Column == column {
			return c.Value
		}
	}
	return ""
}

// set overwrites an existing column in place or appends a new one.
func (r Row) set(column, value string) Row {
	for i := range r {
		if r[i].Column == column {
			r[i].Value = value
			return r
		}
	}
	return append(r, Cell{Column: column, Value: value})
}

type ExportService interface {
	// Rows flattens every application joined with its schedule row.
	Rows() ([]Row, error)
	BuildWorkbook() (*excelize.File, error)
	// Generate rewrites the workbook on disk and returns its absolute path.
	Generate() (string, error)
}

type exportService struct {
	appRepo    repositories.ApplicationRepository
	inviteRepo repositories.InviteRepository
	path       string
	metrics    *metrics.Manager

	// mu serialises rewrites of path.
	mu sync.Mutex
}

func NewExportService(
	appRepo repositories.ApplicationRepository,
	inviteRepo repositories.InviteRepository,
	path string,
	m *metrics.Manager,
) ExportService {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &exportService{
		appRepo:    appRepo,
		inviteRepo: inviteRepo,
		path:       path,
		metrics:    m,
	}
}

func (e *exportService) Rows() ([]Row, error) {
	apps, err := e.appRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, ErrNoApplications
	}

	invites, err := e.inviteRepo.FindAll()
	if err != nil {
		return nil, err
	}
	byApp := make(map[string]*models.Invite, len(invites))
	for i := range invites {
		byApp[invites[i].AppID] = &invites[i]
	}

	rows := make([]Row, 0, len(apps))
	for i := range apps {
		rows = append(rows, FlattenApplication(&apps[i], byApp[apps[i].AppID]))
	}
	return rows, nil
}

func (e *exportService) BuildWorkbook() (*excelize.File, error) {
	rows, err := e.Rows()
	if err != nil {
		return nil, err
	}

	columns := columnOrder(rows)
	sheets := []struct {
		name string
		keep func(Row) bool
	}{
		{SheetAll, func(Row) bool { return true }},
		{SheetShortlist, func(r Row) bool {
			return models.StageOutcome(r.Get("Phone_Status")) == models.StageGo ||
				models.StageOutcome(r.Get("Inperson_Status")) == models.StageGo
		}},
		{SheetNoGo, func(r Row) bool {
			return models.StageOutcome(r.Get("Phone_Status")) == models.StageNoGo ||
				models.StageOutcome(r.Get("Inperson_Status")) == models.StageNoGo
		}},
		{SheetSelected, func(r Row) bool {
			return models.FinalOutcome(r.Get("Application_Status")) == models.ApplicationSelected
		}},
		{SheetRejected, func(r Row) bool {
			return models.FinalOutcome(r.Get("Application_Status")) == models.ApplicationRejected
		}},
	}

	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to name sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}

		var kept []Row
		for _, r := range rows {
			if sheet.keep(r) {
				kept = append(kept, r)
			}
		}
		if err := writeSheet(f, sheet.name, columns, kept); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func (e *exportService) Generate() (string, error) {
	start := time.Now()
	f, err := e.BuildWorkbook()
	if err != nil {
		e.metrics.ExportRefreshed(false, time.Since(start))
		return "", err
	}
	defer f.Close()

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.replaceFile(f); err != nil {
		e.metrics.ExportRefreshed(false, time.Since(start))
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}

	e.metrics.ExportRefreshed(true, time.Since(start))
	return e.path, nil
}

// replaceFile writes f next to path and renames it into place, so readers
// never observe a partially written workbook.
func (e *exportService) replaceFile(f *excelize.File) error {
	tmp, err := os.CreateTemp(filepath.Dir(e.path), ".export-*.xlsx")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), e.path)
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows []Row) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	for i, r := range rows {
		values := make([]interface{}, len(columns))
		for j, c := range columns {
			values[j] = r.Get(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

// columnOrder is the union of all row columns in first-seen order.
func columnOrder(rows []Row) []string {
	seen := map[string]bool{}
	var columns []string
	for _, r := range rows {
		for _, c := range r {
			if !seen[c.Column] {
				seen[c.Column] = true
				columns = append(columns, c.Column)
			}
		}
	}
	return columns
}

// FlattenApplication renders an application and its optional schedule row
// as a single spreadsheet row.
func FlattenApplication(app *models.Application, invite *models.Invite) Row {
	p := app.Profile()

	row := Row{
		{Column: "App_ID", Value: app.AppID},
		{Column: "Job_Title", Value: orDefault(p.JobTitle, "N/A")},
	}

	for _, section := range p.Sections {
		for _, field := range section.Fields {
			row = row.set(capitalize(section.Name)+"_"+capitalize(field.Key), field.Value)
		}
	}

	if p.EducationIsList && len(p.Education) > 0 {
		parts := make([]string, 0, len(p.Education))
		for i, e := range p.Education {
			parts = append(parts, fmt.Sprintf("[%d] Degree: %s, Branch: %s, Institution: %s, Grade: %s",
				i+1, orDefault(e.Degree, "N/A"), orDefault(e.Branch, "N/A"),
				orDefault(e.Institution, "N/A"), orDefault(e.Grade, "N/A")))
		}
		row = row.set("Education_Summary", strings.Join(parts, "\n---\n"))
	} else {
		row = row.set("Education_Summary", orDefault(p.EducationStatus, "N/A"))
	}

	if p.WorkIsList && len(p.Work) > 0 {
		parts := make([]string, 0, len(p.Work))
		for i, w := range p.Work {
			parts = append(parts, fmt.Sprintf("[%d] Title: %s, Company: %s, Dates: %s to %s",
				i+1, orDefault(w.Title, "N/A"), orDefault(w.Company, "N/A"),
				orDefault(w.StartDate, "N/A"), orDefault(w.EndDate, "Present")))
		}
		row = row.set("Work_Experience_Summary", strings.Join(parts, "\n---\n"))
	} else {
		row = row.set("Work_Experience_Summary", orDefault(p.WorkStatus, "Skipped (Fresher)"))
	}

	row = row.set("Job_Title", app.JobTitle)

	sched := models.Invite{}
	if invite != nil {
		sched = *invite
	}
	invitedAt := ""
	if sched.InvitedAt != nil {
		invitedAt = sched.InvitedAt.UTC().Format(invitedAtLayout)
	}
	row = row.set("Recruiter", sched.Recruiter)
	row = row.set("Interviewer", sched.Interviewer)
	row = row.set("Source", sched.Source)
	row = row.set("Phone_Status", orDefault(sched.PhoneStatus, models.StagePending))
	row = row.set("Inperson_Status", orDefault(sched.InpersonStatus, models.StagePending))
	row = row.set("Application_Status", orDefault(sched.ApplicationStatus, models.ApplicationOpen))
	row = row.set("Invited_At", invitedAt)
	row = row.set("Rsvp_Status", orDefault(sched.RSVPStatus, models.RSVPPending))

	return row
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
