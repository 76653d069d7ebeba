package domain

import "time"

// UserRole is the authorization role of a user.
type UserRole string

const (
	RoleAuthor        UserRole = "author"
	RoleAdministrator UserRole = "administrator"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []UserRole{RoleAuthor, RoleAdministrator}

// IsValidRole checks if a role is valid.
func IsValidRole(role UserRole) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a platform user.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	EmailNotify bool      `json:"email_notify"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdministrator reports whether the user holds the administrator role.
func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

// Subscription is a directed social-graph edge: the subscriber follows the
// author. It is stored once; "subscriptions of U" and "followers of A" are
// two read views over the same rows, so the edge can never be one-sided.
type Subscription struct {
	SubscriberID string    `json:"subscriber_id"`
	AuthorID     string    `json:"author_id"`
	CreatedAt    time.Time `json:"created_at"`
}
