package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"medquest/careers-api/internal/ats"
	"medquest/careers-api/internal/config"
	"medquest/careers-api/internal/middleware"
	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
	"medquest/careers-api/internal/services"
	"medquest/careers-api/internal/views"
)

const testRecruiterKey = "test-key"

type recordingMailer struct {
	mu   sync.Mutex
	err  error
	sent []services.Message
}

func (m *recordingMailer) Enabled() bool { return true }

func (m *recordingMailer) Send(_ context.Context, _ string, msg services.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last() services.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type stubParser struct {
	text string
	err  error
}

func (p *stubParser) Available() bool { return true }

func (p *stubParser) ExtractText(string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if p.text == "" {
		return "", services.ErrNoText
	}
	return p.text, nil
}

func (p *stubParser) ExtractTextFromBytes([]byte) (string, error) {
	return p.ExtractText("")
}

type testServer struct {
	app        *fiber.App
	appRepo    repositories.ApplicationRepository
	inviteRepo repositories.InviteRepository
	uploadDir  string
	mailer     *recordingMailer
	parser     *stubParser
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	s := &testServer{
		appRepo:    repositories.NewApplicationRepository(db),
		inviteRepo: repositories.NewInviteRepository(db),
		uploadDir:  t.TempDir(),
		mailer:     &recordingMailer{},
		parser:     &stubParser{},
	}

	storage := services.NewStorageService(s.uploadDir)
	messages := services.NewMessageBuilder("http://careers.test")
	exporter := services.NewExportService(s.appRepo, s.inviteRepo, filepath.Join(t.TempDir(), "export.xlsx"), nil)
	exportWorker := services.NewExportWorker(exporter)
	scorer := ats.NewScorer(ats.WithJitter(func() int { return 0 }))

	appService := services.NewApplicationService(s.appRepo, storage, s.mailer, messages, nil)
	atsService := services.NewATSService(s.appRepo, storage, s.parser, scorer, nil, 2)
	scheduleService := services.NewScheduleService(s.appRepo, s.inviteRepo, s.mailer, messages, exportWorker, nil)

	s.app = fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		ErrorHandler: ErrorHandler,
	})
	router := &Router{
		Application:  NewApplicationHandler(appService, 1<<20),
		Recruiter:    NewRecruiterHandler(atsService, storage, exporter),
		Schedule:     NewScheduleHandler(scheduleService),
		RSVP:         NewRSVPHandler(scheduleService),
		RecruiterKey: testRecruiterKey,
	}
	router.Register(s.app)
	return s
}

func (s *testServer) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) recruiter(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(middleware.RecruiterKeyHeader, testRecruiterKey)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return s.do(t, req)
}

func (s *testServer) createApplication(t *testing.T, appID, jobTitle, data string) {
	t.Helper()
	require.NoError(t, s.appRepo.Create(&models.Application{AppID: appID, JobTitle: jobTitle, ApplicantData: data}))
}

func (s *testServer) writeResume(t *testing.T, name string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.uploadDir, name), content, 0o644))
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func multipartRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, w.WriteField("note", "no file"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}
