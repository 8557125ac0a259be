// Package user defines the user entity and the closed role set.
package user

import "time"

// Role is the closed set of caller roles. Authorization decisions switch
// exhaustively over this type rather than comparing raw strings.
type Role string

const (
	RolePatient       Role = "patient"
	RoleProvider      Role = "provider"
	RoleAdministrator Role = "administrator"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleProvider, RoleAdministrator:
		return true
	}
	return false
}

// Reviewer reports whether the role may review claims.
func (r Role) Reviewer() bool {
	return r == RoleProvider || r == RoleAdministrator
}

// User is an account holder. Users are never physically deleted; deactivation
// flips IsActive and blocks authentication.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	DateOfBirth  string    `json:"date_of_birth,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
