// internal/workflows/intake/intake_test.go
package intake

import (
	"context"
	"testing"
	"time"

	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/events"
	"recruiting-backoffice/internal/mailer"
	"recruiting-backoffice/internal/models"
	"recruiting-backoffice/internal/store"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type mockApps struct {
	created []*models.Application
	updated []*models.Application
	byID    map[string]*models.Application
	err     error
}

func (m *mockApps) Create(ctx context.Context, app *models.Application) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, app)
	return nil
}

func (m *mockApps) Get(ctx context.Context, id string) (*models.Application, error) {
	return m.byID[id], nil
}

func (m *mockApps) List(ctx context.Context, filter store.ApplicationFilter) ([]*models.Application, error) {
	var out []*models.Application
	for _, a := range m.byID {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockApps) Update(ctx context.Context, app *models.Application) error {
	m.updated = append(m.updated, app)
	return nil
}

type mockJobs struct {
	byID map[string]*models.Job
}

func (m *mockJobs) Get(ctx context.Context, id string) (*models.Job, error) {
	return m.byID[id], nil
}

type mockStatusMailer struct {
	sent []string
}

func (m *mockStatusMailer) SendStatusUpdate(ctx context.Context, to string, data mailer.StatusUpdateData) *mailer.SendResult {
	m.sent = append(m.sent, to)
	return &mailer.SendResult{Success: true, Status: mailer.StatusSent}
}

func activeJob() *models.Job {
	return &models.Job{
		ID:     "job-001",
		Title:  "Senior Go Engineer",
		Status: models.JobStatusActive,
	}
}

func testWorkflow(jobs map[string]*models.Job) (*Workflow, *mockApps, *mockStatusMailer, EventBus.Bus) {
	apps := &mockApps{byID: map[string]*models.Application{}}
	mail := &mockStatusMailer{}
	bus := EventBus.New()
	w := NewWorkflow(apps, &mockJobs{byID: jobs}, mail, bus, logger.NewNoOpLogger())
	return w, apps, mail, bus
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, code, string(stdErr.Code))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestSubmitApplication_Success(t *testing.T) {
	w, apps, _, bus := testWorkflow(map[string]*models.Job{"job-001": activeJob()})

	var received events.ApplicationReceived
	require.NoError(t, bus.Subscribe(events.TopicApplicationReceived, func(evt events.ApplicationReceived) {
		received = evt
	}))

	before := time.Now().UTC()
	app, err := w.SubmitApplication(context.Background(), SubmitApplicationInput{
		JobID: "job-001",
		Name:  "Jane Doe",
		Email: "jane@example.com",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.False(t, app.AppliedAt.Before(before))
	require.Len(t, app.StatusHistory, 1)
	assert.Equal(t, models.ApplicationStatusPending, app.StatusHistory[0].Status)

	require.Len(t, apps.created, 1)
	require.NotNil(t, received.Application)
	assert.Equal(t, app.ID, received.Application.ID)
	assert.Equal(t, "job-001", received.Job.ID)
}

func TestSubmitApplication_MissingRequiredFields(t *testing.T) {
	w, apps, _, _ := testWorkflow(map[string]*models.Job{"job-001": activeJob()})

	_, err := w.SubmitApplication(context.Background(), SubmitApplicationInput{
		JobID: "job-001",
		Name:  "Jane Doe",
	})

	assertErrorCode(t, err, "VALIDATION_FAILED")
	assert.Empty(t, apps.created)
}

func TestSubmitApplication_JobNotFound(t *testing.T) {
	w, _, _, _ := testWorkflow(map[string]*models.Job{})

	_, err := w.SubmitApplication(context.Background(), SubmitApplicationInput{
		JobID: "missing",
		Name:  "Jane Doe",
		Email: "jane@example.com",
	})

	assertErrorCode(t, err, "RESOURCE_NOT_FOUND")
}

func TestSubmitApplication_JobNotActive(t *testing.T) {
	closed := activeJob()
	closed.Status = models.JobStatusClosed
	w, apps, _, _ := testWorkflow(map[string]*models.Job{"job-001": closed})

	_, err := w.SubmitApplication(context.Background(), SubmitApplicationInput{
		JobID: "job-001",
		Name:  "Jane Doe",
		Email: "jane@example.com",
	})

	assertErrorCode(t, err, "INVALID_STATE")
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Contains(t, stdErr.Message, "no longer accepting applications")
	assert.Empty(t, apps.created)
}

func TestSubmitApplication_PersistenceFailure(t *testing.T) {
	w, apps, _, _ := testWorkflow(map[string]*models.Job{"job-001": activeJob()})
	apps.err = assert.AnError

	_, err := w.SubmitApplication(context.Background(), SubmitApplicationInput{
		JobID: "job-001",
		Name:  "Jane Doe",
		Email: "jane@example.com",
	})

	assertErrorCode(t, err, "DATABASE_INSERT_FAILED")
}

func TestCreateBenchProfile_NoJobLink(t *testing.T) {
	w, apps, _, _ := testWorkflow(nil)

	app, err := w.CreateBenchProfile(context.Background(), BenchProfileInput{
		Name:   "Sam Bench",
		Email:  "sam@example.com",
		Skills: []string{"Go", "Kubernetes"},
	})

	require.NoError(t, err)
	assert.Empty(t, app.JobID)
	assert.True(t, app.AddToTalentBench)
	assert.Equal(t, models.ApplicationStatusActive, app.Status)
	require.Len(t, apps.created, 1)
}

func TestUpdateApplication_StatusAppendsHistory(t *testing.T) {
	w, apps, mail, _ := testWorkflow(map[string]*models.Job{"job-001": activeJob()})
	apps.byID["app-001"] = &models.Application{
		ID:     "app-001",
		JobID:  "job-001",
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Status: models.ApplicationStatusPending,
		StatusHistory: []models.StatusChange{
			{Status: models.ApplicationStatusPending, ChangedAt: time.Now().UTC()},
		},
	}

	status := models.ApplicationStatusInterview
	app, err := w.UpdateApplication(context.Background(), "app-001", UpdateApplicationInput{
		Status:          &status,
		ChangedBy:       "hr1",
		NotifyCandidate: true,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusInterview, app.Status)
	require.Len(t, app.StatusHistory, 2)
	assert.Equal(t, "hr1", app.StatusHistory[1].ChangedBy)
	assert.Equal(t, []string{"jane@example.com"}, mail.sent)
	require.Len(t, apps.updated, 1)
}

func TestUpdateApplication_SameStatusNoHistoryEntry(t *testing.T) {
	w, apps, mail, _ := testWorkflow(nil)
	apps.byID["app-001"] = &models.Application{
		ID:     "app-001",
		Email:  "jane@example.com",
		Status: models.ApplicationStatusPending,
		StatusHistory: []models.StatusChange{
			{Status: models.ApplicationStatusPending, ChangedAt: time.Now().UTC()},
		},
	}

	status := models.ApplicationStatusPending
	app, err := w.UpdateApplication(context.Background(), "app-001", UpdateApplicationInput{
		Status:          &status,
		NotifyCandidate: true,
	})

	require.NoError(t, err)
	assert.Len(t, app.StatusHistory, 1)
	assert.Empty(t, mail.sent)
}

func TestUpdateApplication_InvalidRating(t *testing.T) {
	w, apps, _, _ := testWorkflow(nil)
	apps.byID["app-001"] = &models.Application{ID: "app-001", Status: models.ApplicationStatusPending}

	rating := 9
	_, err := w.UpdateApplication(context.Background(), "app-001", UpdateApplicationInput{Rating: &rating})
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestUpdateApplication_BenchRemovalIsFlagFlip(t *testing.T) {
	w, apps, _, _ := testWorkflow(nil)
	apps.byID["app-001"] = &models.Application{
		ID:               "app-001",
		Status:           models.ApplicationStatusActive,
		AddToTalentBench: true,
	}

	offBench := false
	app, err := w.UpdateApplication(context.Background(), "app-001", UpdateApplicationInput{AddToTalentBench: &offBench})

	require.NoError(t, err)
	assert.False(t, app.AddToTalentBench)
	require.Len(t, apps.updated, 1)
}

func TestUpdateApplication_NotFound(t *testing.T) {
	w, _, _, _ := testWorkflow(nil)

	_, err := w.UpdateApplication(context.Background(), "missing", UpdateApplicationInput{})
	assertErrorCode(t, err, "RESOURCE_NOT_FOUND")
}
