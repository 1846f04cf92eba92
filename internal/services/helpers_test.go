package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"medquest/careers-api/internal/config"
	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

// fileHeader builds a multipart header the way Fiber hands it to handlers.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["resume"][0]
}

func createApplication(t *testing.T, repo repositories.ApplicationRepository, appID, jobTitle, data string) {
	t.Helper()
	require.NoError(t, repo.Create(&models.Application{AppID: appID, JobTitle: jobTitle, ApplicantData: data}))
}

type sentMail struct {
	To  string
	Msg Message
}

type fakeMailer struct {
	mu      sync.Mutex
	enabled bool
	err     error
	sent    []sentMail
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) Send(_ context.Context, to string, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return ErrMailDisabled
	}
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Msg: msg})
	return nil
}

type fakeParser struct {
	unavailable bool
	text        string
	err         error
	paths       []string
}

func (p *fakeParser) Available() bool { return !p.unavailable }

func (p *fakeParser) ExtractText(path string) (string, error) {
	p.paths = append(p.paths, path)
	return p.text, p.err
}

func (p *fakeParser) ExtractTextFromBytes([]byte) (string, error) {
	return p.text, p.err
}

type fakeExportWorker struct {
	mu       sync.Mutex
	refreshs int
}

func (w *fakeExportWorker) Start(context.Context) {}
func (w *fakeExportWorker) Stop()                 {}
func (w *fakeExportWorker) EnqueueRefresh() {
	w.mu.Lock()
	w.refreshs++
	w.mu.Unlock()
}
