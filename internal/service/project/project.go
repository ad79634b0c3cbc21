// internal/service/project/project.go
package project

import (
	"context"
	"database/sql"

	"leadtrack-service/internal/domain/project"

	"go.uber.org/zap"
)

// ProjectStore is the project persistence the service needs.
type ProjectStore interface {
	ListWithAgents(ctx context.Context) ([]project.ProjectWithAgents, error)
	Create(ctx context.Context, p *project.Project) error
	Update(ctx context.Context, id int64, p *project.Project) error
	AssignAgent(ctx context.Context, projectID, userID int64) error
	UnassignAgent(ctx context.Context, projectID, userID int64) error
	ListAgentsForProject(ctx context.Context, projectID, supervisorID int64) ([]project.ProjectAgent, error)
}

type ProjectService struct {
	projectRepo ProjectStore
	logger      *zap.Logger
}

func NewProjectService(projectRepo ProjectStore, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// ListWithAgents returns active projects with their assigned agents.
func (s *ProjectService) ListWithAgents(ctx context.Context) ([]project.ProjectWithAgents, error) {
	return s.projectRepo.ListWithAgents(ctx)
}

// Create creates a project from the request fields.
func (s *ProjectService) Create(ctx context.Context, req *project.CreateProjectRequest) (*project.Project, error) {
	p := &project.Project{
		Name:        req.Name,
		Description: nullString(req.Description),
		StartDate:   nullString(req.StartDate),
		EndDate:     nullString(req.EndDate),
		Status:      req.Status,
	}

	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("project created", zap.Int64("project_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// Update replaces a project's fields.
func (s *ProjectService) Update(ctx context.Context, id int64, req *project.UpdateProjectRequest) (*project.Project, error) {
	p := &project.Project{
		ID:          id,
		Name:        req.Name,
		Description: nullString(req.Description),
		StartDate:   nullString(req.StartDate),
		EndDate:     nullString(req.EndDate),
		Status:      req.Status,
	}

	if err := s.projectRepo.Update(ctx, id, p); err != nil {
		return nil, err
	}

	s.logger.Info("project updated", zap.Int64("project_id", id))
	return p, nil
}

// AssignAgent puts an agent on a project. Safe to repeat.
func (s *ProjectService) AssignAgent(ctx context.Context, projectID, userID int64) error {
	if err := s.projectRepo.AssignAgent(ctx, projectID, userID); err != nil {
		return err
	}

	s.logger.Info("agent assigned to project",
		zap.Int64("project_id", projectID),
		zap.Int64("user_id", userID),
	)
	return nil
}

// UnassignAgent takes an agent off a project. Redundant unassigns are
// no-ops, not errors.
func (s *ProjectService) UnassignAgent(ctx context.Context, projectID, userID int64) error {
	if err := s.projectRepo.UnassignAgent(ctx, projectID, userID); err != nil {
		return err
	}

	s.logger.Info("agent unassigned from project",
		zap.Int64("project_id", projectID),
		zap.Int64("user_id", userID),
	)
	return nil
}

// ListAgentsForProject returns the supervisor's active agents with their
// membership flag for the project.
func (s *ProjectService) ListAgentsForProject(ctx context.Context, projectID, supervisorID int64) ([]project.ProjectAgent, error) {
	return s.projectRepo.ListAgentsForProject(ctx, projectID, supervisorID)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
