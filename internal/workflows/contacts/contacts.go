// internal/workflows/contacts/contacts.go
package contacts

import (
	"context"
	"time"

	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/common/validation"
	"recruiting-backoffice/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ContactStore is the slice of the persistence gateway the contacts
// workflow needs.
type ContactStore interface {
	Create(ctx context.Context, contact *models.Contact) error
	Get(ctx context.Context, id string) (*models.Contact, error)
	List(ctx context.Context, status models.ContactStatus) ([]*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id string) error
}

// Workflow handles public contact-form submissions and their
// back-office triage.
type Workflow struct {
	contacts ContactStore
	validate *validator.Validate
	logger   logger.Logger
}

func NewWorkflow(contacts ContactStore, log logger.Logger) *Workflow {
	return &Workflow{
		contacts: contacts,
		validate: validator.New(),
		logger:   log.WithFields(map[string]interface{}{"component": "contacts"}),
	}
}

// SubmitContactInput is the public contact-form payload.
type SubmitContactInput struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Phone       string `json:"phone"`
	Company     string `json:"company" validate:"required"`
	JobTitle    string `json:"jobTitle"`
	InquiryType string `json:"inquiryType" validate:"required"`
	Message     string `json:"message" validate:"required"`
}

// SubmitContact validates and stores a contact-form submission.
func (w *Workflow) SubmitContact(ctx context.Context, input SubmitContactInput) (*models.Contact, error) {
	if err := w.validate.Struct(input); err != nil {
		return nil, stderrors.NewValidationError(err.Error())
	}
	if !validation.ValidateEmail(input.Email) {
		return nil, stderrors.NewValidationError("invalid email address")
	}
	if input.Phone != "" && !validation.ValidatePhone(input.Phone) {
		return nil, stderrors.NewValidationError("invalid phone number")
	}

	contact := &models.Contact{
		ID:          uuid.New().String(),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		Company:     input.Company,
		JobTitle:    input.JobTitle,
		InquiryType: input.InquiryType,
		Message:     input.Message,
		Status:      models.ContactStatusNew,
		CreatedAt:   time.Now().UTC(),
	}

	if err := w.contacts.Create(ctx, contact); err != nil {
		return nil, stderrors.NewDatabaseInsertFailedError(err)
	}

	w.logger.Info("contact submission received", map[string]interface{}{
		"contactId":   contact.ID,
		"inquiryType": contact.InquiryType,
	})
	return contact, nil
}

// UpdateContactInput is the triage payload.
type UpdateContactInput struct {
	Status  *models.ContactStatus `json:"status"`
	Message *string               `json:"message"`
}

// UpdateContact applies a partial triage update.
func (w *Workflow) UpdateContact(ctx context.Context, id string, input UpdateContactInput) (*models.Contact, error) {
	contact, err := w.contacts.Get(ctx, id)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get contact", err)
	}
	if contact == nil {
		return nil, stderrors.NewNotFoundError("contact", id)
	}

	if input.Status != nil {
		if !models.ValidContactStatus(*input.Status) {
			return nil, stderrors.NewValidationError("unknown status: " + string(*input.Status))
		}
		contact.Status = *input.Status
	}
	if input.Message != nil {
		contact.Message = *input.Message
	}

	if err := w.contacts.Update(ctx, contact); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("update contact", err)
	}
	return contact, nil
}

// DeleteContact removes a submission.
func (w *Workflow) DeleteContact(ctx context.Context, id string) error {
	contact, err := w.contacts.Get(ctx, id)
	if err != nil {
		return stderrors.NewQueryExecutionFailedError("get contact", err)
	}
	if contact == nil {
		return stderrors.NewNotFoundError("contact", id)
	}
	if err := w.contacts.Delete(ctx, id); err != nil {
		return stderrors.NewQueryExecutionFailedError("delete contact", err)
	}
	return nil
}

// ListContacts returns submissions, optionally filtered by status,
// newest first.
func (w *Workflow) ListContacts(ctx context.Context, status models.ContactStatus) ([]*models.Contact, error) {
	if status != "" && !models.ValidContactStatus(status) {
		return nil, stderrors.NewValidationError("unknown status: " + string(status))
	}
	contacts, err := w.contacts.List(ctx, status)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list contacts", err)
	}
	return contacts, nil
}
