// internal/store/applications.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/models"
)

// ApplicationStore persists candidate applications and talent-bench
// profiles. Skills and the status history live in JSONB columns.
type ApplicationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationStore(db *sql.DB, log logger.Logger) *ApplicationStore {
	return &ApplicationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "applications"}),
	}
}

const applicationColumns = `
	id, application_id, job_id, user_id,
	name, email, phone, address, city, state, zip,
	resume_id, resume_name, resume_key,
	status, rating, notes,
	skills, experience, cover_letter, source,
	talent_bench, owner_id, owner_name,
	applied_at, created_at, status_history`

// Create inserts a new application or bench profile.
func (s *ApplicationStore) Create(ctx context.Context, app *models.Application) error {
	skillsJSON, err := json.Marshal(app.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	historyJSON, err := json.Marshal(app.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, application_id, job_id, user_id,
			name, email, phone, address, city, state, zip,
			resume_id, resume_name, resume_key,
			status, rating, notes,
			skills, experience, cover_letter, source,
			talent_bench, owner_id, owner_name,
			applied_at, created_at, status_history
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17,
			$18, $19, $20, $21,
			$22, $23, $24,
			$25, $26, $27
		)`,
		app.ID, nullString(app.ApplicationID), nullString(app.JobID), nullString(app.UserID),
		app.Name, app.Email, app.Phone, app.Address, app.City, app.State, app.Zip,
		app.ResumeID, app.ResumeName, app.ResumeKey,
		string(app.Status), nullInt(app.Rating), app.Notes,
		skillsJSON, app.Experience, app.CoverLetter, app.Source,
		app.AddToTalentBench, app.OwnerID, app.OwnerName,
		app.AppliedAt, app.CreatedAt, historyJSON,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	s.logger.Info("application created", map[string]interface{}{
		"applicationId": app.ID,
		"jobId":         app.JobID,
		"talentBench":   app.AddToTalentBench,
	})
	return nil
}

// Get fetches a single application by id. Returns (nil, nil) when no
// row exists.
func (s *ApplicationStore) Get(ctx context.Context, id string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

// List returns applications ordered by submission time, newest first.
// Filters are combined when more than one is set.
func (s *ApplicationStore) List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`
	var (
		conds []string
		args  []interface{}
	)

	if filter.JobID != "" {
		args = append(args, filter.JobID)
		conds = append(conds, fmt.Sprintf("job_id = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.TalentBench != nil {
		args = append(args, *filter.TalentBench)
		conds = append(conds, fmt.Sprintf("talent_bench = $%d", len(args)))
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY applied_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// ApplicationFilter narrows List results. Zero values mean "no filter".
type ApplicationFilter struct {
	JobID       string
	UserID      string
	Status      models.ApplicationStatus
	TalentBench *bool
}

// Update replaces the mutable fields of an application row, including
// the full (already appended-to) status history.
func (s *ApplicationStore) Update(ctx context.Context, app *models.Application) error {
	skillsJSON, err := json.Marshal(app.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	historyJSON, err := json.Marshal(app.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE applications SET
			name = $2, email = $3, phone = $4,
			address = $5, city = $6, state = $7, zip = $8,
			resume_id = $9, resume_name = $10, resume_key = $11,
			status = $12, rating = $13, notes = $14,
			skills = $15, experience = $16, cover_letter = $17,
			talent_bench = $18, owner_id = $19, owner_name = $20,
			status_history = $21
		WHERE id = $1`,
		app.ID, app.Name, app.Email, app.Phone,
		app.Address, app.City, app.State, app.Zip,
		app.ResumeID, app.ResumeName, app.ResumeKey,
		string(app.Status), nullInt(app.Rating), app.Notes,
		skillsJSON, app.Experience, app.CoverLetter,
		app.AddToTalentBench, app.OwnerID, app.OwnerName,
		historyJSON,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app           models.Application
		applicationID sql.NullString
		jobID         sql.NullString
		userID        sql.NullString
		rating        sql.NullInt64
		status        string
		skillsJSON    []byte
		historyJSON   []byte
	)

	err := row.Scan(
		&app.ID, &applicationID, &jobID, &userID,
		&app.Name, &app.Email, &app.Phone,
		&app.Address, &app.City, &app.State, &app.Zip,
		&app.ResumeID, &app.ResumeName, &app.ResumeKey,
		&status, &rating, &app.Notes,
		&skillsJSON, &app.Experience, &app.CoverLetter, &app.Source,
		&app.AddToTalentBench, &app.OwnerID, &app.OwnerName,
		&app.AppliedAt, &app.CreatedAt, &historyJSON,
	)
	if err != nil {
		return nil, err
	}

	app.ApplicationID = applicationID.String
	app.JobID = jobID.String
	app.UserID = userID.String
	app.Status = models.ApplicationStatus(status)
	if rating.Valid {
		r := int(rating.Int64)
		app.Rating = &r
	}

	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &app.Skills); err != nil {
			return nil, fmt.Errorf("unmarshal skills: %w", err)
		}
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &app.StatusHistory); err != nil {
			return nil, fmt.Errorf("unmarshal status history: %w", err)
		}
	}

	if app.Skills == nil {
		app.Skills = []string{}
	}
	if app.StatusHistory == nil {
		app.StatusHistory = []models.StatusChange{}
	}

	return &app, nil
}

func nullInt(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}
