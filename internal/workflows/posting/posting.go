// internal/workflows/posting/posting.go
package posting

import (
	"context"
	"time"

	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/events"
	"recruiting-backoffice/internal/models"

	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JobStore is the slice of the persistence gateway the posting workflow
// needs.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, status models.JobStatus) ([]*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id string) error
}

// PostingIDSource hands out the sequential human-facing identifiers.
type PostingIDSource interface {
	NextPostingID(ctx context.Context) (string, error)
}

// Workflow manages the posting lifecycle. Search indexing and
// notification side effects run through the event bus.
type Workflow struct {
	jobs     JobStore
	sequence PostingIDSource
	bus      EventBus.Bus
	validate *validator.Validate
	logger   logger.Logger
}

func NewWorkflow(jobs JobStore, sequence PostingIDSource, bus EventBus.Bus, log logger.Logger) *Workflow {
	return &Workflow{
		jobs:     jobs,
		sequence: sequence,
		bus:      bus,
		validate: validator.New(),
		logger:   log.WithFields(map[string]interface{}{"component": "posting"}),
	}
}

// CreateJobInput is the job creation payload.
type CreateJobInput struct {
	Title       string `json:"title" validate:"required"`
	Department  string `json:"department" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"required"`

	Status           models.JobStatus    `json:"status"`
	Requirements     []string            `json:"requirements"`
	Responsibilities []string            `json:"responsibilities"`
	Salary           *models.SalaryRange `json:"salary"`
	DueDate          *time.Time          `json:"dueDate"`

	CreatedBy   string `json:"createdBy"`
	PosterID    string `json:"posterId"`
	PosterName  string `json:"posterName"`
	PosterEmail string `json:"posterEmail"`
	PosterRole  string `json:"posterRole"`

	Client                  string `json:"client"`
	PayRate                 string `json:"payRate"`
	RecruitmentManagerName  string `json:"recruitmentManagerName"`
	RecruitmentManagerEmail string `json:"recruitmentManagerEmail"`

	NotifyHROnApplication    bool     `json:"notifyHROnApplication"`
	NotifyAdminOnApplication bool     `json:"notifyAdminOnApplication"`
	ExcludedDepartments      []string `json:"excludedDepartments"`

	SendEmailNotification bool `json:"sendEmailNotification"`
}

// CreateJob validates and persists a new posting. The posting
// identifier comes from the Redis sequence; when the sequence is down
// the job is still created without one.
func (w *Workflow) CreateJob(ctx context.Context, input CreateJobInput) (*models.Job, error) {
	if err := w.validate.Struct(input); err != nil {
		return nil, stderrors.NewValidationError(err.Error())
	}

	status := input.Status
	if status == "" {
		status = models.JobStatusDraft
	}
	if !models.ValidJobStatus(status) {
		return nil, stderrors.NewValidationError("unknown status: " + string(status))
	}

	postingID, err := w.sequence.NextPostingID(ctx)
	if err != nil {
		w.logger.Warn("posting sequence unavailable, creating without posting id", map[string]interface{}{
			"error": err,
		})
		postingID = ""
	}

	job := &models.Job{
		ID:                       uuid.New().String(),
		PostingID:                postingID,
		Title:                    input.Title,
		Department:               input.Department,
		Location:                 input.Location,
		Type:                     input.Type,
		Description:              input.Description,
		Requirements:             input.Requirements,
		Responsibilities:         input.Responsibilities,
		Salary:                   input.Salary,
		Status:                   status,
		DueDate:                  input.DueDate,
		CreatedAt:                time.Now().UTC(),
		CreatedBy:                input.CreatedBy,
		PosterID:                 input.PosterID,
		PosterName:               input.PosterName,
		PosterEmail:              input.PosterEmail,
		PosterRole:               input.PosterRole,
		Client:                   input.Client,
		PayRate:                  input.PayRate,
		RecruitmentManagerName:   input.RecruitmentManagerName,
		RecruitmentManagerEmail:  input.RecruitmentManagerEmail,
		NotifyHROnApplication:    input.NotifyHROnApplication,
		NotifyAdminOnApplication: input.NotifyAdminOnApplication,
		ExcludedDepartments:      input.ExcludedDepartments,
	}
	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	if job.Responsibilities == nil {
		job.Responsibilities = []string{}
	}

	if err := w.jobs.Create(ctx, job); err != nil {
		return nil, stderrors.NewDatabaseInsertFailedError(err)
	}

	w.logger.Info("job created", map[string]interface{}{
		"jobId":     job.ID,
		"postingId": job.PostingID,
		"status":    string(job.Status),
	})

	if job.Status == models.JobStatusActive {
		w.bus.Publish(events.TopicJobPublished, events.JobPublished{
			Job:       job,
			SendEmail: input.SendEmailNotification,
		})
	}

	return job, nil
}

// UpdateJobInput is the partial-update payload. Only non-nil fields
// change; identity and provenance fields are immutable.
type UpdateJobInput struct {
	Title       *string `json:"title"`
	Department  *string `json:"department"`
	Location    *string `json:"location"`
	Type        *string `json:"type"`
	Description *string `json:"description"`

	Status           *models.JobStatus   `json:"status"`
	Requirements     []string            `json:"requirements"`
	Responsibilities []string            `json:"responsibilities"`
	Salary           *models.SalaryRange `json:"salary"`
	DueDate          *time.Time          `json:"dueDate"`

	PosterID    *string `json:"posterId"`
	PosterName  *string `json:"posterName"`
	PosterEmail *string `json:"posterEmail"`
	PosterRole  *string `json:"posterRole"`

	Client                  *string `json:"client"`
	PayRate                 *string `json:"payRate"`
	RecruitmentManagerName  *string `json:"recruitmentManagerName"`
	RecruitmentManagerEmail *string `json:"recruitmentManagerEmail"`

	NotifyHROnApplication    *bool    `json:"notifyHROnApplication"`
	NotifyAdminOnApplication *bool    `json:"notifyAdminOnApplication"`
	ExcludedDepartments      []string `json:"excludedDepartments"`
}

// UpdateJob applies a partial update and refreshes the search index
// for active postings.
func (w *Workflow) UpdateJob(ctx context.Context, id string, input UpdateJobInput) (*models.Job, error) {
	job, err := w.jobs.Get(ctx, id)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get job", err)
	}
	if job == nil {
		return nil, stderrors.NewNotFoundError("job", id)
	}

	wasActive := job.Status == models.JobStatusActive

	if input.Title != nil {
		job.Title = *input.Title
	}
	if input.Department != nil {
		job.Department = *input.Department
	}
	if input.Location != nil {
		job.Location = *input.Location
	}
	if input.Type != nil {
		job.Type = *input.Type
	}
	if input.Description != nil {
		job.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidJobStatus(*input.Status) {
			return nil, stderrors.NewValidationError("unknown status: " + string(*input.Status))
		}
		job.Status = *input.Status
	}
	if input.Requirements != nil {
		job.Requirements = input.Requirements
	}
	if input.Responsibilities != nil {
		job.Responsibilities = input.Responsibilities
	}
	if input.Salary != nil {
		job.Salary = input.Salary
	}
	if input.DueDate != nil {
		job.DueDate = input.DueDate
	}
	if input.PosterID != nil {
		job.PosterID = *input.PosterID
	}
	if input.PosterName != nil {
		job.PosterName = *input.PosterName
	}
	if input.PosterEmail != nil {
		job.PosterEmail = *input.PosterEmail
	}
	if input.PosterRole != nil {
		job.PosterRole = *input.PosterRole
	}
	if input.Client != nil {
		job.Client = *input.Client
	}
	if input.PayRate != nil {
		job.PayRate = *input.PayRate
	}
	if input.RecruitmentManagerName != nil {
		job.RecruitmentManagerName = *input.RecruitmentManagerName
	}
	if input.RecruitmentManagerEmail != nil {
		job.RecruitmentManagerEmail = *input.RecruitmentManagerEmail
	}
	if input.NotifyHROnApplication != nil {
		job.NotifyHROnApplication = *input.NotifyHROnApplication
	}
	if input.NotifyAdminOnApplication != nil {
		job.NotifyAdminOnApplication = *input.NotifyAdminOnApplication
	}
	if input.ExcludedDepartments != nil {
		job.ExcludedDepartments = input.ExcludedDepartments
	}

	if err := w.jobs.Update(ctx, job); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("update job", err)
	}

	// Keep the index in step with the posting's visibility.
	if job.Status == models.JobStatusActive {
		w.bus.Publish(events.TopicJobPublished, events.JobPublished{Job: job})
	} else if wasActive {
		w.bus.Publish(events.TopicJobDeleted, events.JobDeleted{JobID: job.ID})
	}

	return job, nil
}

// DeleteJob removes a posting. Applications against it stay in place.
func (w *Workflow) DeleteJob(ctx context.Context, id string) error {
	job, err := w.jobs.Get(ctx, id)
	if err != nil {
		return stderrors.NewQueryExecutionFailedError("get job", err)
	}
	if job == nil {
		return stderrors.NewNotFoundError("job", id)
	}

	if err := w.jobs.Delete(ctx, id); err != nil {
		return stderrors.NewQueryExecutionFailedError("delete job", err)
	}

	w.logger.Info("job deleted", map[string]interface{}{"jobId": id})
	w.bus.Publish(events.TopicJobDeleted, events.JobDeleted{JobID: id})
	return nil
}

// GetJob returns one posting.
func (w *Workflow) GetJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := w.jobs.Get(ctx, id)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get job", err)
	}
	if job == nil {
		return nil, stderrors.NewNotFoundError("job", id)
	}
	return job, nil
}

// ListJobs returns postings, optionally filtered by status, newest
// first.
func (w *Workflow) ListJobs(ctx context.Context, status models.JobStatus) ([]*models.Job, error) {
	if status != "" && !models.ValidJobStatus(status) {
		return nil, stderrors.NewValidationError("unknown status: " + string(status))
	}
	jobs, err := w.jobs.List(ctx, status)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list jobs", err)
	}
	return jobs, nil
}
