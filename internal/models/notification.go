// internal/models/notification.go
package models

import "time"

// Notification types recorded in the in-app activity feed.
const (
	NotificationTypeApplication = "application"
	NotificationTypeJob         = "job"
	NotificationTypeContact     = "contact"
)

// Notification is a lightweight activity-feed record written as a side
// effect of application and job creation.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	RelatedID string    `json:"relatedId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
