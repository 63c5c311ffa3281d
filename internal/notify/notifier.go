// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"time"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/common/observability"
	"recruiting-backoffice/internal/events"
	"recruiting-backoffice/internal/mailer"
	"recruiting-backoffice/internal/models"

	"github.com/asaskevich/EventBus"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// SNSService abstracts the SNS client for mocking.
type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// JobCounter is the slice of the job store the notifier needs.
type JobCounter interface {
	IncrementApplications(ctx context.Context, id string) error
}

// NotificationWriter is the slice of the notification store the
// notifier needs.
type NotificationWriter interface {
	Create(ctx context.Context, n *models.Notification) error
}

// RecipientSource resolves the HR/admin fan-out list.
type RecipientSource interface {
	NotificationRecipients(ctx context.Context, includeHR, includeAdmin bool, excludeEmail string) ([]string, error)
}

// EmailSender is the slice of the mailer the notifier needs.
type EmailSender interface {
	SendApplicationConfirmation(ctx context.Context, to string, data mailer.ApplicationConfirmationData) *mailer.SendResult
	SendNewApplicationAlert(ctx context.Context, to string, data mailer.NewApplicationAlertData) *mailer.SendResult
	SendJobPostedAlert(ctx context.Context, to string, data mailer.JobPostedAlertData) *mailer.SendResult
	SendHRBroadcast(ctx context.Context, recipients []string, data mailer.HRBroadcastData) *mailer.BroadcastResult
}

// Indexer is the slice of the search layer the notifier needs.
type Indexer interface {
	Index(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, jobID string) error
}

// Config gates the optional channels.
type Config struct {
	OpsFeedEnabled bool
	OpsFeedTopic   string
}

// Notifier consumes bus events and performs every fan-out side effect.
// Each effect is independent: a failure is logged and counted, never
// propagated, and never stops the remaining effects.
type Notifier struct {
	jobs       JobCounter
	feed       NotificationWriter
	mail       EmailSender
	recipients RecipientSource
	index      Indexer
	snsClient  SNSService
	obs        *observability.Observability
	cfg        Config
	logger     logger.Logger
}

func New(
	jobs JobCounter,
	feed NotificationWriter,
	mail EmailSender,
	recipients RecipientSource,
	index Indexer,
	snsClient SNSService,
	obs *observability.Observability,
	cfg Config,
	log logger.Logger,
) *Notifier {
	return &Notifier{
		jobs:       jobs,
		feed:       feed,
		mail:       mail,
		recipients: recipients,
		index:      index,
		snsClient:  snsClient,
		obs:        obs,
		cfg:        cfg,
		logger:     log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// Subscribe wires the notifier onto the bus. Production wiring uses
// async subscriptions so request handlers never wait on the fan-out;
// tests subscribe synchronously for determinism.
func (n *Notifier) Subscribe(bus EventBus.Bus, async bool) error {
	subscribe := bus.Subscribe
	if async {
		subscribe = func(topic string, fn interface{}) error {
			return bus.SubscribeAsync(topic, fn, false)
		}
	}

	if err := subscribe(events.TopicApplicationReceived, n.HandleApplicationReceived); err != nil {
		return err
	}
	if err := subscribe(events.TopicJobPublished, n.HandleJobPublished); err != nil {
		return err
	}
	return subscribe(events.TopicJobDeleted, n.HandleJobDeleted)
}

// HandleApplicationReceived runs the post-intake fan-out.
func (n *Notifier) HandleApplicationReceived(evt events.ApplicationReceived) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app := evt.Application
	job := evt.Job

	log := n.logger.WithFields(map[string]interface{}{
		"applicationId": app.ID,
		"jobId":         job.ID,
	})

	// 1. Atomic counter increment.
	if err := n.jobs.IncrementApplications(ctx, job.ID); err != nil {
		log.Error("applications counter increment failed", map[string]interface{}{"error": err})
		n.record(ctx, "counter", false)
	} else {
		n.record(ctx, "counter", true)
	}

	// 2. In-app notification.
	n.writeFeedEntry(ctx, log, &models.Notification{
		ID:        uuid.New().String(),
		Type:      models.NotificationTypeApplication,
		Title:     "New application",
		Message:   fmt.Sprintf("%s applied for %s", app.Name, job.Title),
		Link:      "/applications/" + app.ID,
		RelatedID: app.ID,
		CreatedAt: time.Now().UTC(),
	})

	// 3. Candidate confirmation.
	result := n.mail.SendApplicationConfirmation(ctx, app.Email, mailer.ApplicationConfirmationData{
		CandidateName: app.Name,
		JobTitle:      job.Title,
		ApplicationID: app.ID,
	})
	n.record(ctx, "email", result.Success)

	// 4. Job-owner alert, when the posting carries an owner.
	if job.PosterEmail != "" {
		result := n.mail.SendNewApplicationAlert(ctx, job.PosterEmail, mailer.NewApplicationAlertData{
			OwnerName:     job.PosterName,
			CandidateName: app.Name,
			CandidateMail: app.Email,
			JobTitle:      job.Title,
			AppliedAt:     app.AppliedAt.Format(time.RFC1123),
		})
		n.record(ctx, "email", result.Success)
	}

	// 5. HR/admin directory fan-out per the job's notify flags. The
	// owner never gets both the alert and the broadcast.
	if job.NotifyHROnApplication || job.NotifyAdminOnApplication {
		recipients, err := n.recipients.NotificationRecipients(ctx,
			job.NotifyHROnApplication, job.NotifyAdminOnApplication, job.PosterEmail)
		if err != nil {
			log.Error("recipient lookup failed", map[string]interface{}{"error": err})
			n.record(ctx, "email", false)
		} else if len(recipients) > 0 {
			broadcast := n.mail.SendHRBroadcast(ctx, recipients, mailer.HRBroadcastData{
				CandidateName: app.Name,
				JobTitle:      job.Title,
				PostingID:     job.PostingID,
				AppliedAt:     app.AppliedAt.Format(time.RFC1123),
			})
			for i := 0; i < broadcast.Sent; i++ {
				n.record(ctx, "email", true)
			}
			for i := 0; i < broadcast.Failed; i++ {
				n.record(ctx, "email", false)
			}
		}
	}

	// 6. Optional ops feed.
	n.publishOpsFeed(ctx, log, fmt.Sprintf("application received: %s -> %s (%s)", app.Name, job.Title, app.ID))

	log.Info("application fan-out finished", nil)
}

// HandleJobPublished indexes the posting and runs the publish fan-out.
func (n *Notifier) HandleJobPublished(evt events.JobPublished) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	job := evt.Job
	log := n.logger.WithFields(map[string]interface{}{"jobId": job.ID})

	if err := n.index.Index(ctx, job); err != nil {
		log.Error("job indexing failed", map[string]interface{}{"error": err})
		n.record(ctx, "index", false)
	} else {
		n.record(ctx, "index", true)
	}

	n.writeFeedEntry(ctx, log, &models.Notification{
		ID:        uuid.New().String(),
		Type:      models.NotificationTypeJob,
		Title:     "Job published",
		Message:   fmt.Sprintf("%s is now accepting applications", job.Title),
		Link:      "/jobs/" + job.ID,
		RelatedID: job.ID,
		CreatedAt: time.Now().UTC(),
	})

	if evt.SendEmail && job.RecruitmentManagerEmail != "" {
		result := n.mail.SendJobPostedAlert(ctx, job.RecruitmentManagerEmail, mailer.JobPostedAlertData{
			JobID:               job.PostingID,
			JobTitle:            job.Title,
			Client:              job.Client,
			Location:            job.Location,
			PayRate:             job.PayRate,
			Description:         job.Description,
			ExcludedDepartments: job.ExcludedDepartments,
		})
		n.record(ctx, "email", result.Success)
	}

	n.publishOpsFeed(ctx, log, fmt.Sprintf("job published: %s (%s)", job.Title, job.PostingID))
}

// HandleJobDeleted de-indexes a removed posting.
func (n *Notifier) HandleJobDeleted(evt events.JobDeleted) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := n.index.Delete(ctx, evt.JobID); err != nil {
		n.logger.Error("job de-indexing failed", map[string]interface{}{
			"jobId": evt.JobID,
			"error": err,
		})
		n.record(ctx, "index", false)
	} else {
		n.record(ctx, "index", true)
	}
}

func (n *Notifier) writeFeedEntry(ctx context.Context, log logger.Logger, entry *models.Notification) {
	if err := n.feed.Create(ctx, entry); err != nil {
		log.Error("feed write failed", map[string]interface{}{"error": err})
		n.record(ctx, "in-app", false)
		return
	}
	n.record(ctx, "in-app", true)
}

func (n *Notifier) publishOpsFeed(ctx context.Context, log logger.Logger, message string) {
	if !n.cfg.OpsFeedEnabled || n.snsClient == nil {
		return
	}

	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.OpsFeedTopic),
		Message:  aws.String(message),
	})
	if err != nil {
		log.Error("ops feed publish failed", map[string]interface{}{"error": err})
		n.record(ctx, "ops-feed", false)
		return
	}
	n.record(ctx, "ops-feed", true)
}

func (n *Notifier) record(ctx context.Context, kind string, ok bool) {
	if n.obs == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	n.obs.RecordNotification(ctx, kind, status)
}
