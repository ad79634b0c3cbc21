// internal/repository/postgres/assignment_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"leadtrack-service/internal/domain/customer"
	xerrors "leadtrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssignmentRepository struct {
	db *pgxpool.Pool
}

func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentDetailColumns = `
	ac.id, ac.agent_id, ac.customer_id, ac.source, ac.rating, ac.budget,
	ac.configuration, ac.purpose, ac.status_code, ac.final_status, ac.is_active,
	ac.follow_up_date, ac.follow_up_time, ac.remark, ac.assigned_at, ac.updated_at,
	c.name, c.contact, c.location, c.pincode, c.profession, c.designation,
	c.email, c.preferences
`

func scanAssignmentDetail(row pgx.Row) (*customer.AssignmentDetail, error) {
	var d customer.AssignmentDetail
	err := row.Scan(
		&d.ID, &d.AgentID, &d.CustomerID, &d.Source, &d.Rating, &d.Budget,
		&d.Configuration, &d.Purpose, &d.StatusCode, &d.FinalStatus, &d.IsActive,
		&d.FollowUpDate, &d.FollowUpTime, &d.Remark, &d.AssignedAt, &d.UpdatedAt,
		&d.CustomerName, &d.CustomerContact, &d.CustomerLocation, &d.CustomerPincode,
		&d.CustomerProfession, &d.CustomerDesignation, &d.CustomerEmail, &d.CustomerPreferences,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindDetailByAgentAndCustomer retrieves the caller's own assignment for a
// customer, joined with the customer's fields. Other agents' assignments
// for the same customer are never visible through this path.
func (r *AssignmentRepository) FindDetailByAgentAndCustomer(ctx context.Context, agentID, customerID int64) (*customer.AssignmentDetail, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM agent_customers ac
		JOIN customers c ON c.id = ac.customer_id
		WHERE ac.agent_id = $1 AND ac.customer_id = $2
		ORDER BY ac.assigned_at DESC
		LIMIT 1
	`, assignmentDetailColumns)

	d, err := scanAssignmentDetail(r.db.QueryRow(ctx, query, agentID, customerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	return d, nil
}

// ListByAgent returns all of an agent's assignments joined with customer
// fields, most recently touched first.
func (r *AssignmentRepository) ListByAgent(ctx context.Context, agentID int64) ([]customer.AssignmentDetail, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM agent_customers ac
		JOIN customers c ON c.id = ac.customer_id
		WHERE ac.agent_id = $1
		ORDER BY ac.updated_at DESC
	`, assignmentDetailColumns)

	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []customer.AssignmentDetail{}
	for rows.Next() {
		d, err := scanAssignmentDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, *d)
	}

	return assignments, rows.Err()
}

// InsertTx inserts an assignment row inside a transaction. A second active
// assignment for the same (agent, customer) pair violates the partial
// unique index and surfaces as xerrors.ErrDuplicateEntry.
func (r *AssignmentRepository) InsertTx(ctx context.Context, tx pgx.Tx, a *customer.Assignment) error {
	query := `
		INSERT INTO agent_customers (
			agent_id, customer_id, source, rating, budget, configuration,
			purpose, status_code, follow_up_date, follow_up_time, remark, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE)
		RETURNING id, is_active, assigned_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		a.AgentID, a.CustomerID, a.Source, a.Rating, a.Budget, a.Configuration,
		a.Purpose, a.StatusCode, a.FollowUpDate, a.FollowUpTime, a.Remark,
	).Scan(&a.ID, &a.IsActive, &a.AssignedAt, &a.UpdatedAt)

	if IsUniqueViolation(err) {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

// InsertLogTx appends an audit row inside a transaction.
func (r *AssignmentRepository) InsertLogTx(ctx context.Context, tx pgx.Tx, l *customer.AssignmentLog) error {
	query := `
		INSERT INTO agent_customer_logs (agent_customer_id, action_type, old_value, new_value)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	var oldValue, newValue []byte
	if len(l.OldValue) > 0 {
		oldValue = l.OldValue
	}
	if len(l.NewValue) > 0 {
		newValue = l.NewValue
	}

	err := tx.QueryRow(ctx, query, l.AssignmentID, l.ActionType, oldValue, newValue).
		Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}

const assignmentColumns = `
	id, agent_id, customer_id, source, rating, budget, configuration, purpose,
	status_code, final_status, is_active, follow_up_date, follow_up_time,
	remark, assigned_at, updated_at
`

func scanAssignment(row pgx.Row) (*customer.Assignment, error) {
	var a customer.Assignment
	err := row.Scan(
		&a.ID, &a.AgentID, &a.CustomerID, &a.Source, &a.Rating, &a.Budget,
		&a.Configuration, &a.Purpose, &a.StatusCode, &a.FinalStatus, &a.IsActive,
		&a.FollowUpDate, &a.FollowUpTime, &a.Remark, &a.AssignedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindLiveByIDAndAgentTx retrieves the pre-image of an assignment for its
// owning agent, inside a transaction. Completed assignments are excluded:
// the terminal state rejects further edits.
func (r *AssignmentRepository) FindLiveByIDAndAgentTx(ctx context.Context, tx pgx.Tx, id, agentID int64) (*customer.Assignment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM agent_customers
		WHERE id = $1 AND agent_id = $2 AND final_status IS NULL
	`, assignmentColumns)

	a, err := scanAssignment(tx.QueryRow(ctx, query, id, agentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	return a, nil
}

// UpdateTx rewrites the lead fields of an assignment inside a transaction.
func (r *AssignmentRepository) UpdateTx(ctx context.Context, tx pgx.Tx, a *customer.Assignment) error {
	query := `
		UPDATE agent_customers
		SET source = $1, rating = $2, budget = $3, configuration = $4,
		    purpose = $5, status_code = $6, follow_up_date = $7,
		    follow_up_time = $8, remark = $9, updated_at = now()
		WHERE id = $10
	`

	result, err := tx.Exec(
		ctx, query,
		a.Source, a.Rating, a.Budget, a.Configuration, a.Purpose,
		a.StatusCode, a.FollowUpDate, a.FollowUpTime, a.Remark, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// FindDetailByIDTx reads the post-image of an assignment joined with its
// customer, inside a transaction.
func (r *AssignmentRepository) FindDetailByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*customer.AssignmentDetail, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM agent_customers ac
		JOIN customers c ON c.id = ac.customer_id
		WHERE ac.id = $1
	`, assignmentDetailColumns)

	d, err := scanAssignmentDetail(tx.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	return d, nil
}

// FindStatusForCompletion returns the current status_code of a live
// assignment owned by the agent. Inactive (already completed) assignments
// are out of scope, so a second completion attempt reports ErrNotFound.
func (r *AssignmentRepository) FindStatusForCompletion(ctx context.Context, id, agentID int64) (string, error) {
	query := `
		SELECT status_code FROM agent_customers
		WHERE id = $1 AND agent_id = $2 AND is_active = TRUE
	`

	var status string
	err := r.db.QueryRow(ctx, query, id, agentID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", xerrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find assignment: %w", err)
	}

	return status, nil
}

// Complete marks an assignment finished: terminal final_status, inactive.
// There is no operation that reverses this.
func (r *AssignmentRepository) Complete(ctx context.Context, id int64) error {
	query := `
		UPDATE agent_customers
		SET final_status = $1, is_active = FALSE, updated_at = now()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, customer.FinalStatusCompleted, id)
	if err != nil {
		return fmt.Errorf("failed to complete assignment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// ListLogs returns the audit history for an assignment owned by the given
// agent, oldest first. Rows for another agent's assignment never match.
func (r *AssignmentRepository) ListLogs(ctx context.Context, assignmentID, agentID int64) ([]customer.AssignmentLog, error) {
	query := `
		SELECT l.id, l.agent_customer_id, l.action_type, l.old_value, l.new_value, l.created_at
		FROM agent_customer_logs l
		JOIN agent_customers ac ON ac.id = l.agent_customer_id
		WHERE l.agent_customer_id = $1 AND ac.agent_id = $2
		ORDER BY l.id
	`

	rows, err := r.db.Query(ctx, query, assignmentID, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	logs := []customer.AssignmentLog{}
	for rows.Next() {
		var l customer.AssignmentLog
		if err := rows.Scan(&l.ID, &l.AssignmentID, &l.ActionType, &l.OldValue, &l.NewValue, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
