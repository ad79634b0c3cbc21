// internal/domain/project/entity.go
package project

import (
	"database/sql"
	"time"
)

// Project statuses.
const (
	StatusActive = "active"
	StatusPaused = "paused"
	StatusDone   = "done"
)

type Project struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	StartDate   sql.NullString `json:"start_date,omitempty" db:"start_date"`
	EndDate     sql.NullString `json:"end_date,omitempty" db:"end_date"`
	Status      string         `json:"status" db:"status"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// ProjectWithAgents is a project row with the usernames of its currently
// assigned agents aggregated into a comma-separated string.
type ProjectWithAgents struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description sql.NullString `json:"description,omitempty"`
	StartDate   sql.NullString `json:"start_date,omitempty"`
	EndDate     sql.NullString `json:"end_date,omitempty"`
	Status      string         `json:"status"`
	Agents      sql.NullString `json:"agents"`
}

// ProjectAgent is an agent reporting to a supervisor, with a flag for
// whether the agent is currently assigned to a given project.
type ProjectAgent struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Assigned  bool   `json:"assigned"`
}
