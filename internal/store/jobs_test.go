// internal/store/jobs_test.go
package store

import (
	"context"
	"testing"
	"time"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func testJob() *models.Job {
	return &models.Job{
		ID:               "job-001",
		PostingID:        "OB-42",
		Title:            "Senior Go Engineer",
		Department:       "Engineering",
		Location:         "Remote",
		Type:             "contract",
		Description:      "Build backend services",
		Requirements:     []string{"Go", "PostgreSQL"},
		Responsibilities: []string{"Design APIs"},
		Status:           models.JobStatusActive,
		CreatedAt:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		CreatedBy:        "user-1",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestJobStore_Create_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO jobs`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewJobStore(db, logger.NewNoOpLogger())
	err = store.Create(context.Background(), testJob())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobStore_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM jobs WHERE id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	store := NewJobStore(db, logger.NewNoOpLogger())
	job, err := store.Get(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, job)
}

func TestJobStore_Update_WritesPosterColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE jobs SET(.|\s)*poster_id = \$12, poster_name = \$13, poster_email = \$14, poster_role = \$15`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	job := testJob()
	job.PosterID = "u-7"
	job.PosterName = "Jordan Vale"
	job.PosterEmail = "jordan@example.com"
	job.PosterRole = "recruiter"

	store := NewJobStore(db, logger.NewNoOpLogger())
	err = store.Update(context.Background(), job)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobStore_IncrementApplications_AtomicUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE jobs\s+SET applications_count = applications_count \+ 1\s+WHERE id = \$1`).
		WithArgs("job-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewJobStore(db, logger.NewNoOpLogger())
	err = store.IncrementApplications(context.Background(), "job-001")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobStore_IncrementApplications_MissingJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE jobs`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewJobStore(db, logger.NewNoOpLogger())
	err = store.IncrementApplications(context.Background(), "missing")

	assert.Error(t, err)
}

func TestJobStore_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM jobs`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewJobStore(db, logger.NewNoOpLogger())
	err = store.Delete(context.Background(), "missing")

	assert.Error(t, err)
}

func TestJobStore_List_FiltersByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	columns := []string{
		"id", "posting_id", "title", "department", "location", "type", "description",
		"requirements", "responsibilities", "salary", "status", "due_date",
		"created_at", "created_by",
		"poster_id", "poster_name", "poster_email", "poster_role",
		"applications_count", "client", "pay_rate",
		"recruitment_manager_name", "recruitment_manager_email",
		"notify_hr", "notify_admin", "excluded_departments",
	}
	rows := sqlmock.NewRows(columns).AddRow(
		"job-001", "OB-42", "Senior Go Engineer", "Engineering", "Remote",
		"contract", "Build backend services",
		[]byte(`["Go"]`), []byte(`["Design APIs"]`), nil, "active", nil,
		time.Now(), "user-1",
		"", "", "", "",
		3, "", "",
		"", "",
		false, false, []byte(`[]`),
	)

	mock.ExpectQuery(`SELECT .+ FROM jobs WHERE status = \$1 ORDER BY created_at DESC`).
		WithArgs("active").
		WillReturnRows(rows)

	store := NewJobStore(db, logger.NewNoOpLogger())
	jobs, err := store.List(context.Background(), models.JobStatusActive)

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-001", jobs[0].ID)
	assert.Equal(t, models.JobStatusActive, jobs[0].Status)
	assert.Equal(t, 3, jobs[0].ApplicationsCount)
	assert.Equal(t, []string{"Go"}, jobs[0].Requirements)
}
