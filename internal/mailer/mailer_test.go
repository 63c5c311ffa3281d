// internal/mailer/mailer_test.go
package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/pkg/registry"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	Calls         []*ses.SendEmailInput
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.Calls = append(m.Calls, params)
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-123")}, nil
}

func testRegistry() *registry.TemplateRegistry {
	return &registry.TemplateRegistry{
		Version: "1.0",
		Templates: []registry.Template{
			{Kind: KindApplicationConfirmation, Subject: "We received your application", Enabled: true},
			{Kind: KindNewApplicationAlert, Subject: "New application", Enabled: true},
			{Kind: KindJobPostedAlert, Subject: "New position posted", Enabled: true},
			{Kind: KindHRBroadcast, Subject: "New application received", Enabled: true},
			{Kind: KindStatusUpdate, Subject: "Application status update", Enabled: false},
		},
	}
}

func newTestMailer(t *testing.T, mock *MockSESService) *Mailer {
	return New(mock, testRegistry(), "noreply@olivebridge.example", logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestMailer_SendApplicationConfirmation_Success(t *testing.T) {
	mock := &MockSESService{}
	m := newTestMailer(t, mock)

	result := m.SendApplicationConfirmation(context.Background(), "jordan@example.com", ApplicationConfirmationData{
		CandidateName: "Jordan Smith",
		JobTitle:      "Senior Go Engineer",
		ApplicationID: "app-001",
	})

	assert.True(t, result.Success)
	assert.Equal(t, StatusSent, result.Status)
	assert.Equal(t, "msg-123", result.MessageID)

	require.Len(t, mock.Calls, 1)
	call := mock.Calls[0]
	assert.Equal(t, "We received your application", *call.Message.Subject.Data)
	assert.Equal(t, []string{"jordan@example.com"}, call.Destination.ToAddresses)
	assert.Equal(t, "noreply@olivebridge.example", *call.Source)
}

func TestMailer_BodiesCarrySameValues(t *testing.T) {
	mock := &MockSESService{}
	m := newTestMailer(t, mock)

	m.SendApplicationConfirmation(context.Background(), "jordan@example.com", ApplicationConfirmationData{
		CandidateName: "Jordan Smith",
		JobTitle:      "Senior Go Engineer",
		ApplicationID: "app-001",
	})

	require.Len(t, mock.Calls, 1)
	htmlBody := *mock.Calls[0].Message.Body.Html.Data
	textBody := *mock.Calls[0].Message.Body.Text.Data

	for _, value := range []string{"Jordan Smith", "Senior Go Engineer", "app-001"} {
		assert.Contains(t, htmlBody, value)
		assert.Contains(t, textBody, value)
	}
}

func TestMailer_HTMLBodyEscapesValues(t *testing.T) {
	mock := &MockSESService{}
	m := newTestMailer(t, mock)

	m.SendApplicationConfirmation(context.Background(), "x@example.com", ApplicationConfirmationData{
		CandidateName: `<script>alert("x")</script>`,
		JobTitle:      "QA & Test",
		ApplicationID: "app-002",
	})

	require.Len(t, mock.Calls, 1)
	htmlBody := *mock.Calls[0].Message.Body.Html.Data
	textBody := *mock.Calls[0].Message.Body.Text.Data

	assert.NotContains(t, htmlBody, "<script>")
	assert.Contains(t, htmlBody, "&lt;script&gt;")
	assert.Contains(t, htmlBody, "QA &amp; Test")
	assert.Contains(t, textBody, "QA & Test")
}

func TestMailer_DisabledKind_NoSend(t *testing.T) {
	mock := &MockSESService{}
	m := newTestMailer(t, mock)

	result := m.SendStatusUpdate(context.Background(), "jordan@example.com", StatusUpdateData{
		CandidateName: "Jordan Smith",
		JobTitle:      "Senior Go Engineer",
		NewStatus:     "reviewing",
	})

	assert.False(t, result.Success)
	assert.Equal(t, StatusDisabled, result.Status)
	assert.Empty(t, mock.Calls)
}

func TestMailer_UnknownKind_NoSend(t *testing.T) {
	mock := &MockSESService{}
	m := newTestMailer(t, mock)

	result := m.SendInterviewInvite(context.Background(), "jordan@example.com", InterviewInviteData{
		CandidateName: "Jordan Smith",
	})

	assert.Equal(t, StatusDisabled, result.Status)
	assert.Empty(t, mock.Calls)
}

func TestMailer_SendFailure(t *testing.T) {
	mock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("ses rejected the message")
		},
	}
	m := newTestMailer(t, mock)

	result := m.SendNewApplicationAlert(context.Background(), "owner@example.com", NewApplicationAlertData{
		OwnerName:     "Taylor",
		CandidateName: "Jordan Smith",
		JobTitle:      "Senior Go Engineer",
	})

	assert.False(t, result.Success)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.Error, "ses rejected")
}

func TestMailer_JobPostedAlert_TruncatesDescription(t *testing.T) {
	mock := &MockSESService{}
	m := newTestMailer(t, mock)

	m.SendJobPostedAlert(context.Background(), "hr@example.com", JobPostedAlertData{
		JobTitle:            "Senior Go Engineer",
		Description:         strings.Repeat("a", 500),
		ExcludedDepartments: []string{"Finance", "Legal"},
	})

	require.Len(t, mock.Calls, 1)
	textBody := *mock.Calls[0].Message.Body.Text.Data
	assert.Contains(t, textBody, strings.Repeat("a", 300)+"...")
	assert.NotContains(t, textBody, strings.Repeat("a", 301))
	assert.Contains(t, textBody, "Not intended for: Finance, Legal")
}

func TestMailer_JobPostedAlert_TruncatesOnRuneBoundary(t *testing.T) {
	mock := &MockSESService{}
	m := newTestMailer(t, mock)

	m.SendJobPostedAlert(context.Background(), "hr@example.com", JobPostedAlertData{
		JobTitle:    "Übersetzer",
		Description: strings.Repeat("ü", 500),
	})

	require.Len(t, mock.Calls, 1)
	textBody := *mock.Calls[0].Message.Body.Text.Data
	assert.True(t, utf8.ValidString(textBody))
	assert.Contains(t, textBody, strings.Repeat("ü", 300)+"...")
	assert.NotContains(t, textBody, strings.Repeat("ü", 301))
}

func TestMailer_SendHRBroadcast_TalliesFailures(t *testing.T) {
	var calls int
	mock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			calls++
			if calls == 2 {
				return nil, errors.New("mailbox unavailable")
			}
			return &ses.SendEmailOutput{MessageId: aws.String("msg")}, nil
		},
	}
	m := newTestMailer(t, mock)

	result := m.SendHRBroadcast(context.Background(),
		[]string{"a@example.com", "b@example.com", "c@example.com"},
		HRBroadcastData{CandidateName: "Jordan", JobTitle: "Engineer"},
	)

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, calls)
}

func TestMailer_SendHRBroadcast_AllSent(t *testing.T) {
	mock := &MockSESService{}
	m := newTestMailer(t, mock)

	result := m.SendHRBroadcast(context.Background(),
		[]string{"a@example.com", "b@example.com"},
		HRBroadcastData{CandidateName: "Jordan", JobTitle: "Engineer"},
	)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Sent)
	assert.Zero(t, result.Failed)
}
