// internal/workflows/intake/intake.go
package intake

import (
	"context"
	"time"

	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/events"
	"recruiting-backoffice/internal/mailer"
	"recruiting-backoffice/internal/models"
	"recruiting-backoffice/internal/store"

	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ApplicationStore is the slice of the persistence gateway the intake
// workflow needs.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, filter store.ApplicationFilter) ([]*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
}

// JobReader resolves the posting an application targets.
type JobReader interface {
	Get(ctx context.Context, id string) (*models.Job, error)
}

// StatusMailer sends the candidate status-change email.
type StatusMailer interface {
	SendStatusUpdate(ctx context.Context, to string, data mailer.StatusUpdateData) *mailer.SendResult
}

// Workflow handles application intake, bench profiles, and status
// transitions. All notification side effects of a new submission run
// through the event bus; the caller only waits on the durable write.
type Workflow struct {
	apps     ApplicationStore
	jobs     JobReader
	mail     StatusMailer
	bus      EventBus.Bus
	validate *validator.Validate
	logger   logger.Logger
}

func NewWorkflow(apps ApplicationStore, jobs JobReader, mail StatusMailer, bus EventBus.Bus, log logger.Logger) *Workflow {
	return &Workflow{
		apps:     apps,
		jobs:     jobs,
		mail:     mail,
		bus:      bus,
		validate: validator.New(),
		logger:   log.WithFields(map[string]interface{}{"component": "intake"}),
	}
}

// SubmitApplicationInput is the public apply-flow payload.
type SubmitApplicationInput struct {
	JobID       string   `json:"jobId" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Phone       string   `json:"phone"`
	Skills      []string `json:"skills"`
	Experience  string   `json:"experience"`
	CoverLetter string   `json:"coverLetter"`
	ResumeID    string   `json:"resumeId"`
	UserID      string   `json:"userId"`
}

// SubmitApplication runs the intake preconditions in order, persists
// the application, and publishes the fan-out event.
func (w *Workflow) SubmitApplication(ctx context.Context, input SubmitApplicationInput) (*models.Application, error) {
	if err := w.validate.Struct(input); err != nil {
		return nil, stderrors.NewValidationError(err.Error())
	}

	job, err := w.jobs.Get(ctx, input.JobID)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get job", err)
	}
	if job == nil {
		return nil, stderrors.NewNotFoundError("job", input.JobID)
	}
	if !job.AcceptsApplications() {
		return nil, stderrors.NewStateError(
			"this job is no longer accepting applications",
			"job status is "+string(job.Status),
		)
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:          uuid.New().String(),
		JobID:       job.ID,
		UserID:      input.UserID,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Skills:      input.Skills,
		Experience:  input.Experience,
		CoverLetter: input.CoverLetter,
		ResumeID:    input.ResumeID,
		Status:      models.ApplicationStatusPending,
		AppliedAt:   now,
		CreatedAt:   now,
		StatusHistory: []models.StatusChange{
			{Status: models.ApplicationStatusPending, ChangedAt: now},
		},
	}
	if app.Skills == nil {
		app.Skills = []string{}
	}

	if err := w.apps.Create(ctx, app); err != nil {
		return nil, stderrors.NewDatabaseInsertFailedError(err)
	}

	w.logger.Info("application received", map[string]interface{}{
		"applicationId": app.ID,
		"jobId":         job.ID,
	})

	// Fan-out happens off the request path; subscribers log their own
	// failures.
	w.bus.Publish(events.TopicApplicationReceived, events.ApplicationReceived{
		Application: app,
		Job:         job,
	})

	return app, nil
}

// BenchProfileInput is the admin bench-profile payload. Bench profiles
// have no job link and start active.
type BenchProfileInput struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Notes      string   `json:"notes"`
	OwnerID    string   `json:"ownerId"`
	OwnerName  string   `json:"ownerName"`
}

// CreateBenchProfile adds a candidate straight onto the talent bench.
func (w *Workflow) CreateBenchProfile(ctx context.Context, input BenchProfileInput) (*models.Application, error) {
	if err := w.validate.Struct(input); err != nil {
		return nil, stderrors.NewValidationError(err.Error())
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:               uuid.New().String(),
		Name:             input.Name,
		Email:            input.Email,
		Phone:            input.Phone,
		Skills:           input.Skills,
		Experience:       input.Experience,
		Notes:            input.Notes,
		OwnerID:          input.OwnerID,
		OwnerName:        input.OwnerName,
		Status:           models.ApplicationStatusActive,
		AddToTalentBench: true,
		AppliedAt:        now,
		CreatedAt:        now,
		StatusHistory: []models.StatusChange{
			{Status: models.ApplicationStatusActive, ChangedAt: now, ChangedBy: input.OwnerID},
		},
	}
	if app.Skills == nil {
		app.Skills = []string{}
	}

	if err := w.apps.Create(ctx, app); err != nil {
		return nil, stderrors.NewDatabaseInsertFailedError(err)
	}
	return app, nil
}

// UpdateApplicationInput is the partial-update payload for the review
// screens. Only non-nil fields change; a status change appends to the
// history and optionally emails the candidate.
type UpdateApplicationInput struct {
	Status           *models.ApplicationStatus `json:"status"`
	Rating           *int                      `json:"rating"`
	Notes            *string                   `json:"notes"`
	Skills           []string                  `json:"skills"`
	Experience       *string                   `json:"experience"`
	AddToTalentBench *bool                     `json:"addToTalentBench"`
	OwnerID          *string                   `json:"ownerId"`
	OwnerName        *string                   `json:"ownerName"`
	ChangedBy        string                    `json:"changedBy"`
	NotifyCandidate  bool                      `json:"notifyCandidate"`
}

// UpdateApplication applies a partial update to an application.
func (w *Workflow) UpdateApplication(ctx context.Context, id string, input UpdateApplicationInput) (*models.Application, error) {
	app, err := w.apps.Get(ctx, id)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get application", err)
	}
	if app == nil {
		return nil, stderrors.NewNotFoundError("application", id)
	}

	statusChanged := false
	if input.Status != nil && *input.Status != app.Status {
		if !models.ValidApplicationStatus(*input.Status) {
			return nil, stderrors.NewValidationError("unknown status: " + string(*input.Status))
		}
		app.Status = *input.Status
		app.StatusHistory = append(app.StatusHistory, models.StatusChange{
			Status:    *input.Status,
			ChangedAt: time.Now().UTC(),
			ChangedBy: input.ChangedBy,
		})
		statusChanged = true
	}
	if input.Rating != nil {
		if !models.ValidRating(*input.Rating) {
			return nil, stderrors.NewValidationError("rating must be between 1 and 5")
		}
		app.Rating = input.Rating
	}
	if input.Notes != nil {
		app.Notes = *input.Notes
	}
	if input.Skills != nil {
		app.Skills = input.Skills
	}
	if input.Experience != nil {
		app.Experience = *input.Experience
	}
	if input.AddToTalentBench != nil {
		app.AddToTalentBench = *input.AddToTalentBench
	}
	if input.OwnerID != nil {
		app.OwnerID = *input.OwnerID
	}
	if input.OwnerName != nil {
		app.OwnerName = *input.OwnerName
	}

	if err := w.apps.Update(ctx, app); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("update application", err)
	}

	if statusChanged && input.NotifyCandidate && app.Email != "" {
		jobTitle := ""
		if app.JobID != "" {
			if job, err := w.jobs.Get(ctx, app.JobID); err == nil && job != nil {
				jobTitle = job.Title
			}
		}
		result := w.mail.SendStatusUpdate(ctx, app.Email, mailer.StatusUpdateData{
			CandidateName: app.Name,
			JobTitle:      jobTitle,
			NewStatus:     string(app.Status),
		})
		if !result.Success {
			w.logger.Warn("status update email not sent", map[string]interface{}{
				"applicationId": app.ID,
				"status":        result.Status,
			})
		}
	}

	return app, nil
}

// GetApplication returns one application.
func (w *Workflow) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	app, err := w.apps.Get(ctx, id)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get application", err)
	}
	if app == nil {
		return nil, stderrors.NewNotFoundError("application", id)
	}
	return app, nil
}

// ListApplications returns applications matching the filter, newest
// submissions first.
func (w *Workflow) ListApplications(ctx context.Context, filter store.ApplicationFilter) ([]*models.Application, error) {
	apps, err := w.apps.List(ctx, filter)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list applications", err)
	}
	return apps, nil
}
