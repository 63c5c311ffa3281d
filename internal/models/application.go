// internal/models/application.go
package models

import "time"

// ApplicationStatus enumerates both the hiring funnel statuses and the
// bench-only statuses. Bench profiles use active/inactive and never move
// through the funnel.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusInterview ApplicationStatus = "interview"
	ApplicationStatusOffered   ApplicationStatus = "offered"
	ApplicationStatusHired     ApplicationStatus = "hired"
	ApplicationStatusRejected  ApplicationStatus = "rejected"

	ApplicationStatusActive   ApplicationStatus = "active"
	ApplicationStatusInactive ApplicationStatus = "inactive"
)

// ValidApplicationStatus reports whether s is one of the enumerated values.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewing,
		ApplicationStatusInterview, ApplicationStatusOffered,
		ApplicationStatusHired, ApplicationStatusRejected,
		ApplicationStatusActive, ApplicationStatusInactive:
		return true
	}
	return false
}

// StatusChange is one append-only entry in an application's history.
type StatusChange struct {
	Status    ApplicationStatus `json:"status"`
	ChangedAt time.Time         `json:"changedAt"`
	ChangedBy string            `json:"changedBy,omitempty"`
}

// Application is a candidate's submission against a Job, or a standalone
// talent-bench profile (JobID empty, AddToTalentBench true).
type Application struct {
	ID            string `json:"id"`
	ApplicationID string `json:"applicationId,omitempty"`
	JobID         string `json:"jobId,omitempty"`
	UserID        string `json:"userId,omitempty"`

	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	ResumeID   string `json:"resumeId,omitempty"`
	ResumeName string `json:"resumeName,omitempty"`
	ResumeKey  string `json:"resumeKey,omitempty"`

	Status ApplicationStatus `json:"status"`
	Rating *int              `json:"rating,omitempty"` // 1..5 when set
	Notes  string            `json:"notes,omitempty"`

	Skills      []string `json:"skills"`
	Experience  string   `json:"experience,omitempty"`
	CoverLetter string   `json:"coverLetter,omitempty"`
	Source      string   `json:"source,omitempty"`

	AddToTalentBench bool `json:"addToTalentBench"`

	OwnerID   string `json:"ownerId,omitempty"`
	OwnerName string `json:"ownerName,omitempty"`

	AppliedAt time.Time `json:"appliedAt"`
	CreatedAt time.Time `json:"createdAt"`

	StatusHistory []StatusChange `json:"statusHistory"`
}

// ValidRating reports whether r is an allowed rating value.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
