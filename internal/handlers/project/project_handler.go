// internal/handlers/project/project_handler.go
package project

import (
	"context"
	"net/http"
	"strconv"

	"leadtrack-service/internal/domain/project"
	"leadtrack-service/internal/middleware"
	"leadtrack-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProjectService is the project surface the handler depends on.
type ProjectService interface {
	ListWithAgents(ctx context.Context) ([]project.ProjectWithAgents, error)
	Create(ctx context.Context, req *project.CreateProjectRequest) (*project.Project, error)
	Update(ctx context.Context, id int64, req *project.UpdateProjectRequest) (*project.Project, error)
	AssignAgent(ctx context.Context, projectID, userID int64) error
	UnassignAgent(ctx context.Context, projectID, userID int64) error
	ListAgentsForProject(ctx context.Context, projectID, supervisorID int64) ([]project.ProjectAgent, error)
}

type ProjectHandler struct {
	projectService ProjectService
}

func NewProjectHandler(projectService ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List returns active projects with their assigned agent names.
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.ListWithAgents(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to fetch projects")
		return
	}

	response.JSON(c, http.StatusOK, projects)
}

// Create registers a new project.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req project.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid project payload")
		return
	}

	p, err := h.projectService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to create project")
		return
	}

	response.JSON(c, http.StatusCreated, p)
}

// Update edits a project's name, location or status.
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid project id")
		return
	}

	var req project.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid project payload")
		return
	}

	p, err := h.projectService.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err, "failed to update project")
		return
	}

	response.JSON(c, http.StatusOK, p)
}

// AssignAgent places an agent on a project. Re-assigning a previously
// removed agent reactivates the old membership row.
func (h *ProjectHandler) AssignAgent(c *gin.Context) {
	projectID, userID, ok := h.memberParams(c)
	if !ok {
		return
	}

	if err := h.projectService.AssignAgent(c.Request.Context(), projectID, userID); err != nil {
		response.FromError(c, err, "failed to assign agent")
		return
	}

	response.JSON(c, http.StatusOK, response.Message{Message: "agent assigned"})
}

// UnassignAgent removes an agent from a project. Removing an agent who
// is not on the project is a no-op.
func (h *ProjectHandler) UnassignAgent(c *gin.Context) {
	projectID, userID, ok := h.memberParams(c)
	if !ok {
		return
	}

	if err := h.projectService.UnassignAgent(c.Request.Context(), projectID, userID); err != nil {
		response.FromError(c, err, "failed to unassign agent")
		return
	}

	response.JSON(c, http.StatusOK, response.Message{Message: "agent unassigned"})
}

// ListAgents returns the calling supervisor's agents with a flag for
// whether each is on the project.
func (h *ProjectHandler) ListAgents(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid project id")
		return
	}

	agents, err := h.projectService.ListAgentsForProject(c.Request.Context(), projectID, claims.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to fetch agents")
		return
	}

	response.JSON(c, http.StatusOK, agents)
}

func (h *ProjectHandler) memberParams(c *gin.Context) (projectID, userID int64, ok bool) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid project id")
		return 0, 0, false
	}
	userID, err = strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid user id")
		return 0, 0, false
	}
	return projectID, userID, true
}
