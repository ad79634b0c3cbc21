// internal/service/assignment/assignment.go
package assignment

import (
	"context"
	"encoding/json"
	"fmt"

	"leadtrack-service/internal/domain/customer"
	xerrors "leadtrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// TxBeginner opens database transactions for the multi-statement paths.
type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// CustomerStore is the customer-directory persistence the service needs.
type CustomerStore interface {
	FindByContact(ctx context.Context, contact string) (*customer.Customer, error)
	FindIDByContactTx(ctx context.Context, tx pgx.Tx, contact string) (int64, error)
	InsertTx(ctx context.Context, tx pgx.Tx, c *customer.Customer) error
	OverwriteDemographicsTx(ctx context.Context, tx pgx.Tx, c *customer.Customer) error
	ApplyDemographicsTx(ctx context.Context, tx pgx.Tx, customerID int64, upd *customer.UpdateAssignmentRequest) error
}

// AssignmentStore is the assignment persistence the service needs.
type AssignmentStore interface {
	FindDetailByAgentAndCustomer(ctx context.Context, agentID, customerID int64) (*customer.AssignmentDetail, error)
	ListByAgent(ctx context.Context, agentID int64) ([]customer.AssignmentDetail, error)
	InsertTx(ctx context.Context, tx pgx.Tx, a *customer.Assignment) error
	InsertLogTx(ctx context.Context, tx pgx.Tx, l *customer.AssignmentLog) error
	FindLiveByIDAndAgentTx(ctx context.Context, tx pgx.Tx, id, agentID int64) (*customer.Assignment, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, a *customer.Assignment) error
	FindDetailByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*customer.AssignmentDetail, error)
	FindStatusForCompletion(ctx context.Context, id, agentID int64) (string, error)
	Complete(ctx context.Context, id int64) error
	ListLogs(ctx context.Context, assignmentID, agentID int64) ([]customer.AssignmentLog, error)
}

// AssignmentService owns the lifecycle of a lead from first contact
// through completion, with an audit trail of every create and edit.
type AssignmentService struct {
	db             TxBeginner
	customerRepo   CustomerStore
	assignmentRepo AssignmentStore
	logger         *zap.Logger
}

func NewAssignmentService(db TxBeginner, customerRepo CustomerStore, assignmentRepo AssignmentStore, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		db:             db,
		customerRepo:   customerRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// SearchByPhone looks up the customer by exact contact match and, if found,
// the caller's own assignment for it. xerrors.ErrNotFound covers both a
// missing customer and a customer not assigned to this agent.
func (s *AssignmentService) SearchByPhone(ctx context.Context, phone string, agentID int64) (*customer.AssignmentDetail, error) {
	c, err := s.customerRepo.FindByContact(ctx, phone)
	if err != nil {
		return nil, err
	}

	return s.assignmentRepo.FindDetailByAgentAndCustomer(ctx, agentID, c.ID)
}

// Create finds or creates the customer by contact, assigns it to the agent
// and writes the CREATE audit row, all in one transaction. A duplicate
// active assignment for the pair surfaces as xerrors.ErrDuplicateEntry.
func (s *AssignmentService) Create(ctx context.Context, agentID int64, req *customer.CreateAssignmentRequest) (int64, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Step 1: find or create the customer; on an existing customer the
	// submitted demographics overwrite the stored ones (last writer wins)
	c := customerFromCreate(req)
	customerID, err := s.customerRepo.FindIDByContactTx(ctx, tx, req.Contact)
	switch {
	case err == nil:
		c.ID = customerID
		if err := s.customerRepo.OverwriteDemographicsTx(ctx, tx, c); err != nil {
			return 0, err
		}
	case xerrors.Is(err, xerrors.ErrNotFound):
		if err := s.customerRepo.InsertTx(ctx, tx, c); err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	// Step 2: assign to the agent
	a := &customer.Assignment{
		AgentID:       agentID,
		CustomerID:    c.ID,
		Source:        nullString(req.Source),
		Rating:        nullString(req.Rating),
		Budget:        nullString(req.Budget),
		Configuration: nullString(req.Configuration),
		Purpose:       nullString(req.Purpose),
		StatusCode:    req.StatusCode,
		FollowUpDate:  nullString(NormalizeDate(req.FollowUpDate)),
		FollowUpTime:  nullString(NormalizeTime(req.FollowUpTime)),
		Remark:        nullString(req.Remark),
	}

	if err := s.assignmentRepo.InsertTx(ctx, tx, a); err != nil {
		return 0, err
	}

	// Step 3: audit the creation
	log := &customer.AssignmentLog{
		AssignmentID: a.ID,
		ActionType:   customer.ActionCreate,
		NewValue:     payload,
	}
	if err := s.assignmentRepo.InsertLogTx(ctx, tx, log); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("assignment created",
		zap.Int64("assignment_id", a.ID),
		zap.Int64("customer_id", c.ID),
		zap.Int64("agent_id", agentID),
	)

	return a.ID, nil
}

// Update edits a live assignment owned by the agent: lead fields, optional
// demographic propagation to the customer, and an EDIT audit row with the
// pre- and post-images, all in one transaction. An assignment that does not
// exist, belongs to another agent, or is already completed surfaces as
// xerrors.ErrForbidden.
func (s *AssignmentService) Update(ctx context.Context, id, agentID int64, req *customer.UpdateAssignmentRequest) (*customer.AssignmentDetail, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	pre, err := s.assignmentRepo.FindLiveByIDAndAgentTx(ctx, tx, id, agentID)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	oldValue, err := json.Marshal(pre)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pre-image: %w", err)
	}

	applyUpdate(pre, req)

	if err := s.assignmentRepo.UpdateTx(ctx, tx, pre); err != nil {
		return nil, err
	}

	if req.HasDemographics() {
		if err := s.customerRepo.ApplyDemographicsTx(ctx, tx, pre.CustomerID, req); err != nil {
			return nil, err
		}
	}

	post, err := s.assignmentRepo.FindDetailByIDTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	newValue, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post-image: %w", err)
	}

	log := &customer.AssignmentLog{
		AssignmentID: id,
		ActionType:   customer.ActionEdit,
		OldValue:     oldValue,
		NewValue:     newValue,
	}
	if err := s.assignmentRepo.InsertLogTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("assignment updated",
		zap.Int64("assignment_id", id),
		zap.Int64("agent_id", agentID),
	)

	return post, nil
}

// Complete marks an assignment finished. Allowed only from the
// terminal-eligible statuses; everything else, including an assignment
// already completed or owned by another agent, is xerrors.ErrForbidden.
// The transition is one-way.
func (s *AssignmentService) Complete(ctx context.Context, id, agentID int64) error {
	status, err := s.assignmentRepo.FindStatusForCompletion(ctx, id, agentID)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return xerrors.ErrForbidden
	}
	if err != nil {
		return err
	}

	if status != customer.StatusVisitDone && status != customer.StatusBookingDone {
		return xerrors.ErrForbidden
	}

	if err := s.assignmentRepo.Complete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("assignment completed",
		zap.Int64("assignment_id", id),
		zap.Int64("agent_id", agentID),
	)

	return nil
}

// ListForAgent returns the agent's assignments joined with customer fields,
// most recently touched first.
func (s *AssignmentService) ListForAgent(ctx context.Context, agentID int64) ([]customer.AssignmentDetail, error) {
	return s.assignmentRepo.ListByAgent(ctx, agentID)
}

// History returns the audit trail of an assignment owned by the agent,
// oldest first. Every assignment gets a CREATE row at birth, so an empty
// trail means the assignment is not the caller's: xerrors.ErrForbidden.
func (s *AssignmentService) History(ctx context.Context, id, agentID int64) ([]customer.AssignmentLog, error) {
	logs, err := s.assignmentRepo.ListLogs(ctx, id, agentID)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, xerrors.ErrForbidden
	}
	return logs, nil
}

func customerFromCreate(req *customer.CreateAssignmentRequest) *customer.Customer {
	return &customer.Customer{
		Name:        req.Name,
		Contact:     req.Contact,
		Location:    nullString(req.Location),
		Pincode:     nullString(req.Pincode),
		Profession:  nullString(req.Profession),
		Designation: nullString(req.Designation),
		Email:       nullString(req.Email),
		Preferences: pq.StringArray(req.Preferences),
	}
}

func applyUpdate(a *customer.Assignment, req *customer.UpdateAssignmentRequest) {
	if req.Source != nil {
		a.Source = nullString(*req.Source)
	}
	if req.Rating != nil {
		a.Rating = nullString(*req.Rating)
	}
	if req.Budget != nil {
		a.Budget = nullString(*req.Budget)
	}
	if req.Configuration != nil {
		a.Configuration = nullString(*req.Configuration)
	}
	if req.Purpose != nil {
		a.Purpose = nullString(*req.Purpose)
	}
	if req.StatusCode != nil {
		a.StatusCode = *req.StatusCode
	}
	if req.FollowUpDate != nil {
		a.FollowUpDate = nullString(NormalizeDate(*req.FollowUpDate))
	}
	if req.FollowUpTime != nil {
		a.FollowUpTime = nullString(NormalizeTime(*req.FollowUpTime))
	}
	if req.Remark != nil {
		a.Remark = nullString(*req.Remark)
	}
}
