// internal/handlers/customer/customer_handler.go
package customer

import (
	"context"
	"net/http"
	"regexp"
	"strconv"

	"leadtrack-service/internal/domain/customer"
	"leadtrack-service/internal/middleware"
	xerrors "leadtrack-service/internal/pkg/errors"
	"leadtrack-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// AssignmentService is the assignment surface the handler depends on.
type AssignmentService interface {
	SearchByPhone(ctx context.Context, phone string, agentID int64) (*customer.AssignmentDetail, error)
	Create(ctx context.Context, agentID int64, req *customer.CreateAssignmentRequest) (int64, error)
	Update(ctx context.Context, id, agentID int64, req *customer.UpdateAssignmentRequest) (*customer.AssignmentDetail, error)
	Complete(ctx context.Context, id, agentID int64) error
	ListForAgent(ctx context.Context, agentID int64) ([]customer.AssignmentDetail, error)
	History(ctx context.Context, id, agentID int64) ([]customer.AssignmentLog, error)
}

type CustomerHandler struct {
	assignmentService AssignmentService
}

func NewCustomerHandler(assignmentService AssignmentService) *CustomerHandler {
	return &CustomerHandler{assignmentService: assignmentService}
}

// Search looks a customer up by 10-digit phone for the calling agent.
// A miss is a normal outcome, reported as status NOT_FOUND with 200.
func (h *CustomerHandler) Search(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	var req customer.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "phone number is required")
		return
	}
	if !phonePattern.MatchString(req.Phone) {
		response.ValidationError(c, "invalid phone number")
		return
	}

	detail, err := h.assignmentService.SearchByPhone(c.Request.Context(), req.Phone, claims.UserID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.JSON(c, http.StatusOK, customer.SearchResponse{Status: customer.SearchNotFound})
			return
		}
		response.Error(c, http.StatusInternalServerError, "search failed")
		return
	}

	response.JSON(c, http.StatusOK, customer.SearchResponse{Status: customer.SearchFound, Data: detail})
}

// Create records a new customer assignment for the calling agent.
func (h *CustomerHandler) Create(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	var req customer.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "name, contact and status are required")
		return
	}
	if !phonePattern.MatchString(req.Contact) {
		response.ValidationError(c, "invalid phone number")
		return
	}

	id, err := h.assignmentService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrDuplicateEntry) {
			response.Error(c, http.StatusConflict, "customer already assigned to you")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create assignment")
		return
	}

	response.JSON(c, http.StatusCreated, customer.CreateAssignmentResponse{AssignmentID: id})
}

// Update edits a live assignment owned by the calling agent and returns
// the refreshed record.
func (h *CustomerHandler) Update(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid assignment id")
		return
	}

	var req customer.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid update payload")
		return
	}

	detail, err := h.assignmentService.Update(c.Request.Context(), assignmentID, claims.UserID, &req)
	if err != nil {
		response.FromError(c, err, "failed to update assignment")
		return
	}

	response.JSON(c, http.StatusOK, detail)
}

// Complete closes an assignment whose status has reached a terminal
// stage.
func (h *CustomerHandler) Complete(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid assignment id")
		return
	}

	if err := h.assignmentService.Complete(c.Request.Context(), assignmentID, claims.UserID); err != nil {
		response.FromError(c, err, "failed to complete assignment")
		return
	}

	response.JSON(c, http.StatusOK, customer.CompleteResponse{Success: true})
}

// History returns the audit trail of one of the calling agent's
// assignments.
func (h *CustomerHandler) History(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid assignment id")
		return
	}

	logs, err := h.assignmentService.History(c.Request.Context(), assignmentID, claims.UserID)
	if err != nil {
		response.FromError(c, err, "failed to fetch assignment history")
		return
	}

	response.JSON(c, http.StatusOK, logs)
}

// List returns the calling agent's assignments, most recently updated
// first.
func (h *CustomerHandler) List(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	assignments, err := h.assignmentService.ListForAgent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to fetch assignments")
		return
	}

	response.JSON(c, http.StatusOK, assignments)
}
