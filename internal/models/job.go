// internal/models/job.go
package models

import "time"

// JobStatus enumerates the lifecycle states of a posting.
type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

// ValidJobStatus reports whether s is one of the enumerated statuses.
func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusPaused, JobStatusClosed:
		return true
	}
	return false
}

// SalaryRange is an optional advertised range on a posting.
type SalaryRange struct {
	Currency string `json:"currency"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
}

// Job is a posted staffing position. PostingID is the human-facing
// sequential identifier ("OB-<n>"), assigned once at creation and never
// reused; ID is the internal identity.
type Job struct {
	ID               string       `json:"id"`
	PostingID        string       `json:"postingId,omitempty"`
	Title            string       `json:"title"`
	Department       string       `json:"department"`
	Location         string       `json:"location"`
	Type             string       `json:"type"`
	Description      string       `json:"description"`
	Requirements     []string     `json:"requirements"`
	Responsibilities []string     `json:"responsibilities"`
	Salary           *SalaryRange `json:"salary,omitempty"`
	Status           JobStatus    `json:"status"`
	DueDate          *time.Time   `json:"dueDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`

	PosterID    string `json:"posterId,omitempty"`
	PosterName  string `json:"posterName,omitempty"`
	PosterEmail string `json:"posterEmail,omitempty"`
	PosterRole  string `json:"posterRole,omitempty"`

	// ApplicationsCount is incremented only by the intake pipeline,
	// through an atomic update at the persistence layer.
	ApplicationsCount int `json:"applicationsCount"`

	Client                  string `json:"client,omitempty"`
	PayRate                 string `json:"payRate,omitempty"`
	RecruitmentManagerName  string `json:"recruitmentManagerName,omitempty"`
	RecruitmentManagerEmail string `json:"recruitmentManagerEmail,omitempty"`

	NotifyHROnApplication    bool `json:"notifyHROnApplication"`
	NotifyAdminOnApplication bool `json:"notifyAdminOnApplication"`

	// ExcludedDepartments annotates an HR broadcast; it is rendered in
	// the email body but does not filter the recipient list (the
	// directory carries no department attribute to match against).
	ExcludedDepartments []string `json:"excludedDepartments,omitempty"`
}

// AcceptsApplications reports whether the posting can receive a new
// application.
func (j *Job) AcceptsApplications() bool {
	return j.Status == JobStatusActive
}
