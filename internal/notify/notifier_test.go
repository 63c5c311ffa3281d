// internal/notify/notifier_test.go
package notify

import (
	"context"
	"testing"
	"time"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/events"
	"recruiting-backoffice/internal/mailer"
	"recruiting-backoffice/internal/models"

	"github.com/asaskevich/EventBus"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type mockJobCounter struct {
	incremented []string
	err         error
}

func (m *mockJobCounter) IncrementApplications(ctx context.Context, id string) error {
	m.incremented = append(m.incremented, id)
	return m.err
}

type mockFeed struct {
	entries []*models.Notification
	err     error
}

func (m *mockFeed) Create(ctx context.Context, n *models.Notification) error {
	m.entries = append(m.entries, n)
	return m.err
}

type mockMail struct {
	confirmations []string
	alerts        []string
	jobAlerts     []string
	broadcasts    [][]string
}

func (m *mockMail) SendApplicationConfirmation(ctx context.Context, to string, data mailer.ApplicationConfirmationData) *mailer.SendResult {
	m.confirmations = append(m.confirmations, to)
	return &mailer.SendResult{Success: true, Status: mailer.StatusSent}
}

func (m *mockMail) SendNewApplicationAlert(ctx context.Context, to string, data mailer.NewApplicationAlertData) *mailer.SendResult {
	m.alerts = append(m.alerts, to)
	return &mailer.SendResult{Success: true, Status: mailer.StatusSent}
}

func (m *mockMail) SendJobPostedAlert(ctx context.Context, to string, data mailer.JobPostedAlertData) *mailer.SendResult {
	m.jobAlerts = append(m.jobAlerts, to)
	return &mailer.SendResult{Success: true, Status: mailer.StatusSent}
}

func (m *mockMail) SendHRBroadcast(ctx context.Context, recipients []string, data mailer.HRBroadcastData) *mailer.BroadcastResult {
	m.broadcasts = append(m.broadcasts, recipients)
	return &mailer.BroadcastResult{Success: true, Sent: len(recipients)}
}

type mockRecipients struct {
	calls      int
	includeHR  bool
	includeAdm bool
	exclude    string
	result     []string
}

func (m *mockRecipients) NotificationRecipients(ctx context.Context, includeHR, includeAdmin bool, excludeEmail string) ([]string, error) {
	m.calls++
	m.includeHR = includeHR
	m.includeAdm = includeAdmin
	m.exclude = excludeEmail
	return m.result, nil
}

type mockIndexer struct {
	indexed []string
	deleted []string
	err     error
}

func (m *mockIndexer) Index(ctx context.Context, job *models.Job) error {
	m.indexed = append(m.indexed, job.ID)
	return m.err
}

func (m *mockIndexer) Delete(ctx context.Context, jobID string) error {
	m.deleted = append(m.deleted, jobID)
	return m.err
}

type mockSNS struct {
	messages []string
}

func (m *mockSNS) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	m.messages = append(m.messages, *input.Message)
	return &sns.PublishOutput{}, nil
}

type fixture struct {
	notifier   *Notifier
	jobs       *mockJobCounter
	feed       *mockFeed
	mail       *mockMail
	recipients *mockRecipients
	index      *mockIndexer
	snsClient  *mockSNS
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		jobs:       &mockJobCounter{},
		feed:       &mockFeed{},
		mail:       &mockMail{},
		recipients: &mockRecipients{result: []string{"hr@example.com"}},
		index:      &mockIndexer{},
		snsClient:  &mockSNS{},
	}
	f.notifier = New(f.jobs, f.feed, f.mail, f.recipients, f.index, f.snsClient, nil, cfg, logger.NewNoOpLogger())
	return f
}

func sampleEvent() events.ApplicationReceived {
	return events.ApplicationReceived{
		Application: &models.Application{
			ID:        "app-001",
			Name:      "Dana Smith",
			Email:     "dana@example.com",
			AppliedAt: time.Now().UTC(),
		},
		Job: &models.Job{
			ID:          "job-001",
			PostingID:   "OB-7",
			Title:       "Senior Go Engineer",
			PosterEmail: "owner@example.com",
			PosterName:  "Owner",
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestNotifier_ApplicationReceived_FullFanOut(t *testing.T) {
	f := newFixture(Config{})

	evt := sampleEvent()
	evt.Job.NotifyHROnApplication = true
	f.notifier.HandleApplicationReceived(evt)

	assert.Equal(t, []string{"job-001"}, f.jobs.incremented)
	require.Len(t, f.feed.entries, 1)
	assert.Equal(t, models.NotificationTypeApplication, f.feed.entries[0].Type)
	assert.Equal(t, "app-001", f.feed.entries[0].RelatedID)

	assert.Equal(t, []string{"dana@example.com"}, f.mail.confirmations)
	assert.Equal(t, []string{"owner@example.com"}, f.mail.alerts)
	require.Len(t, f.mail.broadcasts, 1)
	assert.Equal(t, []string{"hr@example.com"}, f.mail.broadcasts[0])
	assert.Equal(t, "owner@example.com", f.recipients.exclude)
}

func TestNotifier_ApplicationReceived_NoFlagsSkipsBroadcast(t *testing.T) {
	f := newFixture(Config{})

	f.notifier.HandleApplicationReceived(sampleEvent())

	assert.Zero(t, f.recipients.calls)
	assert.Empty(t, f.mail.broadcasts)
}

func TestNotifier_ApplicationReceived_CounterFailureDoesNotStopFanOut(t *testing.T) {
	f := newFixture(Config{})
	f.jobs.err = assert.AnError

	f.notifier.HandleApplicationReceived(sampleEvent())

	assert.Equal(t, []string{"dana@example.com"}, f.mail.confirmations)
	assert.Len(t, f.feed.entries, 1)
}

func TestNotifier_ApplicationReceived_OpsFeedGatedByConfig(t *testing.T) {
	f := newFixture(Config{OpsFeedEnabled: true, OpsFeedTopic: "arn:aws:sns:us-east-1:1:ops"})

	f.notifier.HandleApplicationReceived(sampleEvent())
	require.Len(t, f.snsClient.messages, 1)
	assert.Contains(t, f.snsClient.messages[0], "Dana Smith")

	off := newFixture(Config{})
	off.notifier.HandleApplicationReceived(sampleEvent())
	assert.Empty(t, off.snsClient.messages)
}

func TestNotifier_JobPublished_IndexesAndNotifies(t *testing.T) {
	f := newFixture(Config{})

	f.notifier.HandleJobPublished(events.JobPublished{
		Job: &models.Job{
			ID:                      "job-001",
			PostingID:               "OB-7",
			Title:                   "Senior Go Engineer",
			RecruitmentManagerEmail: "manager@example.com",
		},
		SendEmail: true,
	})

	assert.Equal(t, []string{"job-001"}, f.index.indexed)
	require.Len(t, f.feed.entries, 1)
	assert.Equal(t, models.NotificationTypeJob, f.feed.entries[0].Type)
	assert.Equal(t, []string{"manager@example.com"}, f.mail.jobAlerts)
}

func TestNotifier_JobPublished_EmailSuppressed(t *testing.T) {
	f := newFixture(Config{})

	f.notifier.HandleJobPublished(events.JobPublished{
		Job: &models.Job{
			ID:                      "job-001",
			Title:                   "Senior Go Engineer",
			RecruitmentManagerEmail: "manager@example.com",
		},
		SendEmail: false,
	})

	assert.Empty(t, f.mail.jobAlerts)
	assert.Equal(t, []string{"job-001"}, f.index.indexed)
}

func TestNotifier_JobDeleted_RemovesFromIndex(t *testing.T) {
	f := newFixture(Config{})

	f.notifier.HandleJobDeleted(events.JobDeleted{JobID: "job-001"})
	assert.Equal(t, []string{"job-001"}, f.index.deleted)
}

func TestNotifier_Subscribe_DeliversOverBus(t *testing.T) {
	f := newFixture(Config{})
	bus := EventBus.New()
	require.NoError(t, f.notifier.Subscribe(bus, false))

	bus.Publish(events.TopicApplicationReceived, sampleEvent())

	assert.Equal(t, []string{"job-001"}, f.jobs.incremented)
	assert.Equal(t, []string{"dana@example.com"}, f.mail.confirmations)
}
