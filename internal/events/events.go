// internal/events/events.go
package events

import "recruiting-backoffice/internal/models"

// Bus topics. Payloads are published after the durable write succeeds
// and consumed by the notifier; publishers never wait on subscribers.
const (
	TopicApplicationReceived = "application:received"
	TopicJobPublished        = "job:published"
	TopicJobDeleted          = "job:deleted"
)

// ApplicationReceived is emitted once an application has been persisted.
type ApplicationReceived struct {
	Application *models.Application
	Job         *models.Job
}

// JobPublished is emitted when a job is created with (or transitions
// to) active status.
type JobPublished struct {
	Job       *models.Job
	SendEmail bool
}

// JobDeleted is emitted after a posting is removed, for best-effort
// search de-indexing.
type JobDeleted struct {
	JobID string
}
