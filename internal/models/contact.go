// internal/models/contact.go
package models

import "time"

// ContactStatus tracks how far an inquiry has been handled.
type ContactStatus string

const (
	ContactStatusNew       ContactStatus = "new"
	ContactStatusRead      ContactStatus = "read"
	ContactStatusResponded ContactStatus = "responded"
	ContactStatusArchived  ContactStatus = "archived"
)

// ValidContactStatus reports whether s is one of the enumerated values.
func ValidContactStatus(s ContactStatus) bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusResponded, ContactStatusArchived:
		return true
	}
	return false
}

// Contact is a public contact-form submission.
type Contact struct {
	ID          string        `json:"id"`
	FirstName   string        `json:"firstName"`
	LastName    string        `json:"lastName"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone,omitempty"`
	Company     string        `json:"company"`
	JobTitle    string        `json:"jobTitle,omitempty"`
	InquiryType string        `json:"inquiryType"`
	Message     string        `json:"message"`
	Status      ContactStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}
