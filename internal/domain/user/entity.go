// internal/domain/user/entity.go
package user

import (
	"database/sql"
	"time"
)

// Roles recognized by the service.
const (
	RoleAgent      = "AGENT"
	RoleSupervisor = "SUPERVISOR"
	RoleAdmin      = "ADMIN"
)

// ValidRole reports whether role is one of the recognized roles.
func ValidRole(role string) bool {
	return role == RoleAgent || role == RoleSupervisor || role == RoleAdmin
}

type User struct {
	ID           int64          `json:"id" db:"id"`
	FirstName    string         `json:"first_name" db:"first_name"`
	LastName     string         `json:"last_name" db:"last_name"`
	Username     string         `json:"username" db:"username"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Role         string         `json:"role" db:"role"`
	SupervisorID sql.NullInt64  `json:"supervisor_id,omitempty" db:"supervisor_id"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// UserWithProjects is a directory row with the user's active project names
// aggregated into a comma-separated string.
type UserWithProjects struct {
	ID        int64          `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Username  string         `json:"username"`
	Role      string         `json:"role"`
	Projects  sql.NullString `json:"projects"`
}
