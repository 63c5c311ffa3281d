// internal/models/user.go
package models

// Role is the back-office role derived from identity-provider group
// membership. The mapping happens once, at the identity boundary; the
// rest of the service only ever sees this enum.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleHR    Role = "hr"
	RoleUser  Role = "user"
)

// ValidRole reports whether r is one of the enumerated roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleHR, RoleUser:
		return true
	}
	return false
}

// User is a directory account as exposed by the admin API.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Enabled   bool   `json:"enabled"`
	Role      Role   `json:"role"`
}

// DisplayName returns the user's full name, falling back to the
// username when no name parts are set.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}
