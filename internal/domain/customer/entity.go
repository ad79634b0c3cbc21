// internal/domain/customer/entity.go
package customer

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Customer is the global directory record, keyed by unique contact number.
type Customer struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Contact string `json:"contact" db:"contact"`

	// Demographics, overwritten last-writer-wins on re-assignment
	Location    sql.NullString `json:"location,omitempty" db:"location"`
	Pincode     sql.NullString `json:"pincode,omitempty" db:"pincode"`
	Profession  sql.NullString `json:"profession,omitempty" db:"profession"`
	Designation sql.NullString `json:"designation,omitempty" db:"designation"`
	Email       sql.NullString `json:"email,omitempty" db:"email"`
	Preferences pq.StringArray `json:"preferences,omitempty" db:"preferences"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FinalStatusCompleted is the only terminal final_status value.
const FinalStatusCompleted = "COMPLETED"

// Status codes eligible for completion.
const (
	StatusVisitDone   = "visit-done"
	StatusBookingDone = "booking-done"
)

// Assignment links one Customer to one Agent and carries the lead state.
// At most one active assignment may exist per (agent, customer) pair;
// the data layer enforces this with a partial unique index.
type Assignment struct {
	ID         int64 `json:"id" db:"id"`
	AgentID    int64 `json:"agent_id" db:"agent_id"`
	CustomerID int64 `json:"customer_id" db:"customer_id"`

	Source        sql.NullString `json:"source,omitempty" db:"source"`
	Rating        sql.NullString `json:"rating,omitempty" db:"rating"`
	Budget        sql.NullString `json:"budget,omitempty" db:"budget"`
	Configuration sql.NullString `json:"configuration,omitempty" db:"configuration"`
	Purpose       sql.NullString `json:"purpose,omitempty" db:"purpose"`

	StatusCode   string         `json:"status_code" db:"status_code"`
	FinalStatus  sql.NullString `json:"final_status,omitempty" db:"final_status"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	FollowUpDate sql.NullString `json:"follow_up_date,omitempty" db:"follow_up_date"`
	FollowUpTime sql.NullString `json:"follow_up_time,omitempty" db:"follow_up_time"`
	Remark       sql.NullString `json:"remark,omitempty" db:"remark"`

	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Completed reports whether the assignment has reached its terminal state.
func (a *Assignment) Completed() bool {
	return a.FinalStatus.Valid && a.FinalStatus.String == FinalStatusCompleted
}

// AssignmentDetail is an Assignment joined with its customer's fields,
// as returned by search and list operations.
type AssignmentDetail struct {
	Assignment

	CustomerName        string         `json:"name"`
	CustomerContact     string         `json:"contact"`
	CustomerLocation    sql.NullString `json:"location,omitempty"`
	CustomerPincode     sql.NullString `json:"pincode,omitempty"`
	CustomerProfession  sql.NullString `json:"profession,omitempty"`
	CustomerDesignation sql.NullString `json:"designation,omitempty"`
	CustomerEmail       sql.NullString `json:"email,omitempty"`
	CustomerPreferences pq.StringArray `json:"preferences,omitempty"`
}

// Audit log action types.
const (
	ActionCreate = "CREATE"
	ActionEdit   = "EDIT"
)

// AssignmentLog is an append-only audit row. OldValue and NewValue hold
// serialized snapshots and are never interpreted by the service.
type AssignmentLog struct {
	ID           int64           `json:"id" db:"id"`
	AssignmentID int64           `json:"agent_customer_id" db:"agent_customer_id"`
	ActionType   string          `json:"action_type" db:"action_type"`
	OldValue     json.RawMessage `json:"old_value,omitempty" db:"old_value"`
	NewValue     json.RawMessage `json:"new_value,omitempty" db:"new_value"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
