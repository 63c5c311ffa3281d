// internal/store/contacts.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/models"
)

// ContactStore persists contact-form submissions.
type ContactStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewContactStore(db *sql.DB, log logger.Logger) *ContactStore {
	return &ContactStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "contacts"}),
	}
}

const contactColumns = `
	id, first_name, last_name, email, phone, company,
	job_title, inquiry_type, message, status, created_at`

// Create inserts a new contact submission.
func (s *ContactStore) Create(ctx context.Context, contact *models.Contact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (
			id, first_name, last_name, email, phone, company,
			job_title, inquiry_type, message, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		contact.ID, contact.FirstName, contact.LastName, contact.Email,
		contact.Phone, contact.Company, contact.JobTitle,
		contact.InquiryType, contact.Message,
		string(contact.Status), contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}

	s.logger.Info("contact created", map[string]interface{}{
		"contactId":   contact.ID,
		"inquiryType": contact.InquiryType,
	})
	return nil
}

// Get fetches a single contact by id. Returns (nil, nil) when no row
// exists.
func (s *ContactStore) Get(ctx context.Context, id string) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

// List returns contacts, optionally filtered by status, newest first.
func (s *ContactStore) List(ctx context.Context, status models.ContactStatus) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

// Update replaces the mutable fields of a contact row.
func (s *ContactStore) Update(ctx context.Context, contact *models.Contact) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE contacts SET status = $2, message = $3
		WHERE id = $1`,
		contact.ID, string(contact.Status), contact.Message,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contact rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a contact submission.
func (s *ContactStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var (
		contact models.Contact
		status  string
	)

	err := row.Scan(
		&contact.ID, &contact.FirstName, &contact.LastName, &contact.Email,
		&contact.Phone, &contact.Company, &contact.JobTitle,
		&contact.InquiryType, &contact.Message, &status, &contact.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	contact.Status = models.ContactStatus(status)
	return &contact, nil
}
