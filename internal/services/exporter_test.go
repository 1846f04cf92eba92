package services

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"medquest/careers-api/internal/metrics"
	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
)

const exportApplicant = `{
	"jobTitle": "Frontend Developer",
	"personal": {"firstName": "Asha", "lastName": "Rao"},
	"communication": {"email": "asha@example.com"},
	"work": [{"title": "UI Engineer", "company": "Acme", "startDate": "2020-01"}]
}`

func TestFlattenApplication(t *testing.T) {
	invitedAt := time.Date(2025, 3, 7, 10, 30, 0, 0, time.UTC)
	app := &models.Application{AppID: "MQ-1", JobTitle: "Frontend Developer (Remote)", ApplicantData: exportApplicant}

	row := FlattenApplication(app, &models.Invite{
		AppID:       "MQ-1",
		Recruiter:   "Priya",
		PhoneStatus: models.StageGo,
		InvitedAt:   &invitedAt,
	})

	assert.Equal(t, "MQ-1", row[0].Value)
	assert.Equal(t, "Job_Title", row[1].Column)
	assert.Equal(t, "Frontend Developer (Remote)", row.Get("Job_Title"))
	assert.Equal(t, "Asha", row.Get("Personal_Firstname"))
	assert.Equal(t, "asha@example.com", row.Get("Communication_Email"))
	assert.Equal(t, "[1] Title: UI Engineer, Company: Acme, Dates: 2020-01 to Present", row.Get("Work_Experience_Summary"))
	assert.Equal(t, "N/A", row.Get("Education_Summary"))
	assert.Equal(t, "Priya", row.Get("Recruiter"))
	assert.Equal(t, models.StageGo, row.Get("Phone_Status"))
	assert.Equal(t, models.StagePending, row.Get("Inperson_Status"))
	assert.Equal(t, models.ApplicationOpen, row.Get("Application_Status"))
	assert.Equal(t, "2025-03-07 10:30:00", row.Get("Invited_At"))
	assert.Equal(t, models.RSVPPending, row.Get("Rsvp_Status"))
}

func TestFlattenApplication_WithoutInvite(t *testing.T) {
	app := &models.Application{AppID: "MQ-2", JobTitle: "Intern", ApplicantData: `{"work":{"status":"Skipped"},"education":{"status":"Skipped"}}`}

	row := FlattenApplication(app, nil)

	assert.Equal(t, "Intern", row.Get("Job_Title"))
	assert.Equal(t, "Skipped", row.Get("Work_Experience_Summary"))
	assert.Equal(t, "Skipped", row.Get("Education_Summary"))
	assert.Equal(t, "", row.Get("Recruiter"))
	assert.Equal(t, "", row.Get("Invited_At"))
	assert.Equal(t, models.StagePending, row.Get("Phone_Status"))

	assert.Equal(t, "Skipped (Fresher)", FlattenApplication(&models.Application{ApplicantData: `{}`}, nil).Get("Work_Experience_Summary"))
}

func newExportFixture(t *testing.T) (ExportService, repositories.ApplicationRepository, repositories.InviteRepository, string) {
	t.Helper()
	db := newTestDB(t)
	appRepo := repositories.NewApplicationRepository(db)
	inviteRepo := repositories.NewInviteRepository(db)
	path := filepath.Join(t.TempDir(), "export.xlsx")
	return NewExportService(appRepo, inviteRepo, path, metrics.NewManager()), appRepo, inviteRepo, path
}

func TestExportService_BuildWorkbook(t *testing.T) {
	exporter, appRepo, inviteRepo, _ := newExportFixture(t)

	createApplication(t, appRepo, "MQ-go", "Frontend Developer", exportApplicant)
	createApplication(t, appRepo, "MQ-nogo", "Intern", `{}`)
	createApplication(t, appRepo, "MQ-picked", "Intern", `{}`)
	createApplication(t, appRepo, "MQ-fresh", "Intern", `{}`)

	require.NoError(t, inviteRepo.Upsert(&models.Invite{AppID: "MQ-go", PhoneStatus: "go"}))
	require.NoError(t, inviteRepo.Upsert(&models.Invite{AppID: "MQ-nogo", InpersonStatus: "No go", ApplicationStatus: "rejected"}))
	require.NoError(t, inviteRepo.Upsert(&models.Invite{AppID: "MQ-picked", PhoneStatus: "Go", InpersonStatus: "Go", ApplicationStatus: "Selected"}))

	f, err := exporter.BuildWorkbook()
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAll, SheetShortlist, SheetNoGo, SheetSelected, SheetRejected}, f.GetSheetList())

	ids := func(sheet string) []string {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		assert.Equal(t, "App_ID", rows[0][0])
		var out []string
		for _, r := range rows[1:] {
			out = append(out, r[0])
		}
		return out
	}

	assert.ElementsMatch(t, []string{"MQ-go", "MQ-nogo", "MQ-picked", "MQ-fresh"}, ids(SheetAll))
	assert.ElementsMatch(t, []string{"MQ-go", "MQ-picked"}, ids(SheetShortlist))
	assert.Equal(t, []string{"MQ-nogo"}, ids(SheetNoGo))
	assert.Equal(t, []string{"MQ-picked"}, ids(SheetSelected))
	assert.Equal(t, []string{"MQ-nogo"}, ids(SheetRejected))
}

func TestExportService_Generate(t *testing.T) {
	exporter, appRepo, _, path := newExportFixture(t)

	_, err := exporter.Generate()
	assert.ErrorIs(t, err, ErrNoApplications)

	createApplication(t, appRepo, "MQ-1", "Frontend Developer", exportApplicant)

	written, err := exporter.Generate()
	require.NoError(t, err)
	assert.Equal(t, path, written)

	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(SheetAll, "A2")
	require.NoError(t, err)
	assert.Equal(t, "MQ-1", value)
}

func TestExportService_GenerateConcurrent(t *testing.T) {
	exporter, appRepo, _, path := newExportFixture(t)
	createApplication(t, appRepo, "MQ-1", "Frontend Developer", exportApplicant)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := exporter.Generate()
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(SheetAll, "A2")
	require.NoError(t, err)
	assert.Equal(t, "MQ-1", value)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".export-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
