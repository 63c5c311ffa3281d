// internal/store/jobs.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/models"
)

// JobStore persists job postings in PostgreSQL. List-shaped fields and
// the salary range live in JSONB columns.
type JobStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewJobStore(db *sql.DB, log logger.Logger) *JobStore {
	return &JobStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "jobs"}),
	}
}

const jobColumns = `
	id, posting_id, title, department, location, type, description,
	requirements, responsibilities, salary, status, due_date,
	created_at, created_by,
	poster_id, poster_name, poster_email, poster_role,
	applications_count, client, pay_rate,
	recruitment_manager_name, recruitment_manager_email,
	notify_hr, notify_admin, excluded_departments`

// Create inserts a new job posting.
func (s *JobStore) Create(ctx context.Context, job *models.Job) error {
	requirementsJSON, err := json.Marshal(job.Requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}
	responsibilitiesJSON, err := json.Marshal(job.Responsibilities)
	if err != nil {
		return fmt.Errorf("marshal responsibilities: %w", err)
	}
	excludedJSON, err := json.Marshal(job.ExcludedDepartments)
	if err != nil {
		return fmt.Errorf("marshal excluded departments: %w", err)
	}

	var salaryJSON []byte
	if job.Salary != nil {
		salaryJSON, err = json.Marshal(job.Salary)
		if err != nil {
			return fmt.Errorf("marshal salary: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO jobs (
			id, posting_id, title, department, location, type, description,
			requirements, responsibilities, salary, status, due_date,
			created_at, created_by,
			poster_id, poster_name, poster_email, poster_role,
			applications_count, client, pay_rate,
			recruitment_manager_name, recruitment_manager_email,
			notify_hr, notify_admin, excluded_departments
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14,
			$15, $16, $17, $18,
			$19, $20, $21,
			$22, $23,
			$24, $25, $26
		)`,
		job.ID, nullString(job.PostingID), job.Title, job.Department, job.Location,
		job.Type, job.Description,
		requirementsJSON, responsibilitiesJSON, nullBytes(salaryJSON),
		string(job.Status), nullTime(job.DueDate),
		job.CreatedAt, job.CreatedBy,
		job.PosterID, job.PosterName, job.PosterEmail, job.PosterRole,
		job.ApplicationsCount, job.Client, job.PayRate,
		job.RecruitmentManagerName, job.RecruitmentManagerEmail,
		job.NotifyHROnApplication, job.NotifyAdminOnApplication, excludedJSON,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	s.logger.Info("job created", map[string]interface{}{
		"jobId":     job.ID,
		"postingId": job.PostingID,
		"status":    string(job.Status),
	})
	return nil
}

// Get fetches a single job by id. Returns (nil, nil) when no row exists.
func (s *JobStore) Get(ctx context.Context, id string) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List returns jobs, optionally filtered by status, newest first.
func (s *JobStore) List(ctx context.Context, status models.JobStatus) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Update replaces the mutable fields of a job row. The caller is
// responsible for merging partial input into the full record first.
func (s *JobStore) Update(ctx context.Context, job *models.Job) error {
	requirementsJSON, err := json.Marshal(job.Requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}
	responsibilitiesJSON, err := json.Marshal(job.Responsibilities)
	if err != nil {
		return fmt.Errorf("marshal responsibilities: %w", err)
	}
	excludedJSON, err := json.Marshal(job.ExcludedDepartments)
	if err != nil {
		return fmt.Errorf("marshal excluded departments: %w", err)
	}

	var salaryJSON []byte
	if job.Salary != nil {
		salaryJSON, err = json.Marshal(job.Salary)
		if err != nil {
			return fmt.Errorf("marshal salary: %w", err)
		}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET
			title = $2, department = $3, location = $4, type = $5,
			description = $6, requirements = $7, responsibilities = $8,
			salary = $9, status = $10, due_date = $11,
			poster_id = $12, poster_name = $13, poster_email = $14, poster_role = $15,
			client = $16, pay_rate = $17,
			recruitment_manager_name = $18, recruitment_manager_email = $19,
			notify_hr = $20, notify_admin = $21, excluded_departments = $22
		WHERE id = $1`,
		job.ID, job.Title, job.Department, job.Location, job.Type,
		job.Description, requirementsJSON, responsibilitiesJSON,
		nullBytes(salaryJSON), string(job.Status), nullTime(job.DueDate),
		job.PosterID, job.PosterName, job.PosterEmail, job.PosterRole,
		job.Client, job.PayRate,
		job.RecruitmentManagerName, job.RecruitmentManagerEmail,
		job.NotifyHROnApplication, job.NotifyAdminOnApplication, excludedJSON,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a job posting. Applications referencing the job are
// left in place.
func (s *JobStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete job rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	s.logger.Info("job deleted", map[string]interface{}{"jobId": id})
	return nil
}

// IncrementApplications bumps the applications counter in a single
// statement so concurrent intakes never lose an increment.
func (s *JobStore) IncrementApplications(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs
		SET applications_count = applications_count + 1
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment applications: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var (
		job                  models.Job
		postingID            sql.NullString
		requirementsJSON     []byte
		responsibilitiesJSON []byte
		salaryJSON           []byte
		excludedJSON         []byte
		status               string
		dueDate              sql.NullTime
	)

	err := row.Scan(
		&job.ID, &postingID, &job.Title, &job.Department, &job.Location,
		&job.Type, &job.Description,
		&requirementsJSON, &responsibilitiesJSON, &salaryJSON,
		&status, &dueDate,
		&job.CreatedAt, &job.CreatedBy,
		&job.PosterID, &job.PosterName, &job.PosterEmail, &job.PosterRole,
		&job.ApplicationsCount, &job.Client, &job.PayRate,
		&job.RecruitmentManagerName, &job.RecruitmentManagerEmail,
		&job.NotifyHROnApplication, &job.NotifyAdminOnApplication, &excludedJSON,
	)
	if err != nil {
		return nil, err
	}

	job.PostingID = postingID.String
	job.Status = models.JobStatus(status)
	if dueDate.Valid {
		t := dueDate.Time
		job.DueDate = &t
	}

	if len(requirementsJSON) > 0 {
		if err := json.Unmarshal(requirementsJSON, &job.Requirements); err != nil {
			return nil, fmt.Errorf("unmarshal requirements: %w", err)
		}
	}
	if len(responsibilitiesJSON) > 0 {
		if err := json.Unmarshal(responsibilitiesJSON, &job.Responsibilities); err != nil {
			return nil, fmt.Errorf("unmarshal responsibilities: %w", err)
		}
	}
	if len(salaryJSON) > 0 {
		var salary models.SalaryRange
		if err := json.Unmarshal(salaryJSON, &salary); err != nil {
			return nil, fmt.Errorf("unmarshal salary: %w", err)
		}
		job.Salary = &salary
	}
	if len(excludedJSON) > 0 {
		if err := json.Unmarshal(excludedJSON, &job.ExcludedDepartments); err != nil {
			return nil, fmt.Errorf("unmarshal excluded departments: %w", err)
		}
	}

	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	if job.Responsibilities == nil {
		job.Responsibilities = []string{}
	}

	return &job, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
