package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medquest/careers-api/internal/metrics"
	"medquest/careers-api/internal/repositories"
)

func newApplicationFixture(t *testing.T) (ApplicationService, repositories.ApplicationRepository, StorageService, *fakeMailer) {
	t.Helper()
	db := newTestDB(t)
	appRepo := repositories.NewApplicationRepository(db)
	storage := NewStorageService(t.TempDir())
	mailer := &fakeMailer{enabled: true}
	svc := NewApplicationService(appRepo, storage, mailer, NewMessageBuilder("http://careers.test"), metrics.NewManager())
	return svc, appRepo, storage, mailer
}

func TestApplicationService_SaveAndGet(t *testing.T) {
	svc, appRepo, _, _ := newApplicationFixture(t)
	raw := []byte(`{"jobTitle":"UX Designer","personal":{"firstName":"Kiran"}}`)

	id, err := svc.Save(raw)
	require.NoError(t, err)
	assert.Regexp(t, `^MQ-[0-9a-f]{8}$`, id)

	app, err := appRepo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, "UX Designer", app.JobTitle)

	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(got))

	_, err = svc.Get("MQ-missing")
	assert.ErrorIs(t, err, repositories.ErrApplicationNotFound)
}

func TestApplicationService_SaveDefaultsJobTitle(t *testing.T) {
	svc, appRepo, _, _ := newApplicationFixture(t)

	id, err := svc.Save([]byte(`{"personal":{}}`))
	require.NoError(t, err)

	app, err := appRepo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Job", app.JobTitle)
}

func TestApplicationService_SaveRejectsNonObjects(t *testing.T) {
	svc, _, _, _ := newApplicationFixture(t)

	for _, raw := range []string{``, `[]`, `"text"`, `{broken`} {
		_, err := svc.Save([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidApplication, raw)
	}
}

func TestApplicationService_SubmitResume(t *testing.T) {
	svc, _, storage, mailer := newApplicationFixture(t)
	id, err := svc.Save([]byte(`{"jobTitle":"Data Scientist","personal":{"firstName":"Kiran"},"communication":{"email":"kiran@example.com"}}`))
	require.NoError(t, err)

	sent, err := svc.SubmitResume(context.Background(), id, fileHeader(t, "resume.pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.True(t, sent)

	name, err := storage.FindResume(id)
	require.NoError(t, err)
	assert.Equal(t, id+"_resume.pdf", name)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "kiran@example.com", mailer.sent[0].To)
	assert.Equal(t, "Medquest Application Confirmed: Data Scientist - Kiran", mailer.sent[0].Msg.Subject)
}

func TestApplicationService_SubmitResumeWithoutEmail(t *testing.T) {
	svc, _, _, mailer := newApplicationFixture(t)
	id, err := svc.Save([]byte(`{"jobTitle":"Data Scientist"}`))
	require.NoError(t, err)

	sent, err := svc.SubmitResume(context.Background(), id, fileHeader(t, "resume.jpg", []byte("jpg")))
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, mailer.sent)
}

func TestApplicationService_SubmitResumeMailFailureStillSaves(t *testing.T) {
	svc, _, storage, mailer := newApplicationFixture(t)
	mailer.err = errors.New("connection refused")
	id, err := svc.Save([]byte(`{"communication":{"email":"kiran@example.com"}}`))
	require.NoError(t, err)

	sent, err := svc.SubmitResume(context.Background(), id, fileHeader(t, "resume.pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.False(t, sent)

	_, err = storage.FindResume(id)
	assert.NoError(t, err)
}

func TestApplicationService_SubmitResumeErrors(t *testing.T) {
	svc, _, _, _ := newApplicationFixture(t)

	_, err := svc.SubmitResume(context.Background(), "MQ-missing", fileHeader(t, "resume.pdf", []byte("%PDF")))
	assert.ErrorIs(t, err, repositories.ErrApplicationNotFound)

	id, err := svc.Save([]byte(`{}`))
	require.NoError(t, err)
	_, err = svc.SubmitResume(context.Background(), id, fileHeader(t, "resume.exe", []byte("MZ")))
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
}
