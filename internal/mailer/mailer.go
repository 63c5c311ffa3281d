// internal/mailer/mailer.go
package mailer

import (
	"context"
	"time"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/common/metrics"
	"recruiting-backoffice/pkg/registry"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Send result statuses.
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// SESService abstracts the SES client for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SendResult reports the outcome of a single send.
type SendResult struct {
	Success   bool      `json:"success"`
	Status    string    `json:"status"`
	MessageID string    `json:"messageId,omitempty"`
	Error     string    `json:"error,omitempty"`
	SentAt    time.Time `json:"sentAt"`
}

// BroadcastResult tallies a multi-recipient send. Success is true only
// when every individual send succeeded.
type BroadcastResult struct {
	Success bool `json:"success"`
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
}

// Mailer renders templates and delivers them one SES call per
// recipient. There is no retrying or queueing; delivery confirmation is
// whatever SES reports at accept time.
type Mailer struct {
	sesClient SESService
	registry  *registry.TemplateRegistry
	fromEmail string
	logger    logger.Logger
}

func New(sesClient SESService, reg *registry.TemplateRegistry, fromEmail string, log logger.Logger) *Mailer {
	return &Mailer{
		sesClient: sesClient,
		registry:  reg,
		fromEmail: fromEmail,
		logger:    log.WithFields(map[string]interface{}{"component": "mailer"}),
	}
}

// send looks up the kind in the registry and delivers one message. A
// disabled or unknown kind short-circuits without an SES call.
func (m *Mailer) send(ctx context.Context, kind, to string, b body) *SendResult {
	tmpl := m.registry.Lookup(kind)
	if tmpl == nil || !tmpl.Enabled {
		m.logger.Info("template disabled, skipping send", map[string]interface{}{
			"kind": kind,
			"to":   to,
		})
		metrics.EmailsSkipped.WithLabelValues(kind).Inc()
		return &SendResult{Success: false, Status: StatusDisabled, SentAt: time.Now().UTC()}
	}

	out, err := m.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(tmpl.Subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(b.html)},
				Text: &types.Content{Data: aws.String(b.text)},
			},
		},
		Source: aws.String(m.fromEmail),
	})
	if err != nil {
		m.logger.Error("email send failed", map[string]interface{}{
			"kind":  kind,
			"to":    to,
			"error": err,
		})
		metrics.EmailsFailed.WithLabelValues(kind).Inc()
		return &SendResult{
			Success: false,
			Status:  StatusFailed,
			Error:   err.Error(),
			SentAt:  time.Now().UTC(),
		}
	}

	messageID := ""
	if out != nil && out.MessageId != nil {
		messageID = *out.MessageId
	}

	m.logger.Info("email sent", map[string]interface{}{
		"kind":      kind,
		"to":        to,
		"messageId": messageID,
	})
	metrics.EmailsSent.WithLabelValues(kind).Inc()
	return &SendResult{
		Success:   true,
		Status:    StatusSent,
		MessageID: messageID,
		SentAt:    time.Now().UTC(),
	}
}

// SendApplicationConfirmation mails the candidate after intake.
func (m *Mailer) SendApplicationConfirmation(ctx context.Context, to string, data ApplicationConfirmationData) *SendResult {
	return m.send(ctx, KindApplicationConfirmation, to, renderApplicationConfirmation(data))
}

// SendNewApplicationAlert mails the job owner about a new application.
func (m *Mailer) SendNewApplicationAlert(ctx context.Context, to string, data NewApplicationAlertData) *SendResult {
	return m.send(ctx, KindNewApplicationAlert, to, renderNewApplicationAlert(data))
}

// SendJobPostedAlert mails the recruitment manager about a new posting.
func (m *Mailer) SendJobPostedAlert(ctx context.Context, to string, data JobPostedAlertData) *SendResult {
	return m.send(ctx, KindJobPostedAlert, to, renderJobPostedAlert(data))
}

// SendInterviewInvite mails a candidate an interview invitation.
func (m *Mailer) SendInterviewInvite(ctx context.Context, to string, data InterviewInviteData) *SendResult {
	return m.send(ctx, KindInterviewInvite, to, renderInterviewInvite(data))
}

// SendStatusUpdate mails a candidate a status change notice.
func (m *Mailer) SendStatusUpdate(ctx context.Context, to string, data StatusUpdateData) *SendResult {
	return m.send(ctx, KindStatusUpdate, to, renderStatusUpdate(data))
}

// SendCustom mails a free-form message.
func (m *Mailer) SendCustom(ctx context.Context, to string, data CustomData) *SendResult {
	return m.send(ctx, KindCustom, to, renderCustom(data))
}

// SendHRBroadcast mails every recipient sequentially and tallies the
// outcome. A failed send is logged and counted; the rest of the list
// still goes out.
func (m *Mailer) SendHRBroadcast(ctx context.Context, recipients []string, data HRBroadcastData) *BroadcastResult {
	result := &BroadcastResult{}
	b := renderHRBroadcast(data)
	metrics.BroadcastRecipients.Observe(float64(len(recipients)))

	for _, to := range recipients {
		r := m.send(ctx, KindHRBroadcast, to, b)
		if r.Success {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	result.Success = result.Failed == 0
	m.logger.Info("broadcast finished", map[string]interface{}{
		"recipients": len(recipients),
		"sent":       result.Sent,
		"failed":     result.Failed,
	})
	return result
}
