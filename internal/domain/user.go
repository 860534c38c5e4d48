package domain

import "time"

// UserRole separates ticket submitters from dashboard admins.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User is the domain model for anyone who can authenticate: end-users who
// submit tickets and admins who triage them. It is also the record the
// identity resolver reads when turning actor ids into display labels.
type User struct {
	ID           string
	Email        string
	DisplayName  *string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
