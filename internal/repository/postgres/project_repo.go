// internal/repository/postgres/project_repo.go
package postgres

import (
	"context"
	"fmt"

	"leadtrack-service/internal/domain/project"
	"leadtrack-service/internal/domain/user"
	xerrors "leadtrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ListWithAgents returns active projects with the usernames of their
// currently assigned agents aggregated into one string per project.
func (r *ProjectRepository) ListWithAgents(ctx context.Context) ([]project.ProjectWithAgents, error) {
	query := `
		SELECT p.id, p.name, p.description, p.start_date, p.end_date, p.status,
		       string_agg(u.username, ',' ORDER BY u.username)
		FROM projects p
		LEFT JOIN user_projects up ON p.id = up.project_id AND up.is_active = TRUE
		LEFT JOIN users u ON up.user_id = u.id AND u.role = $1
		WHERE p.is_active = TRUE
		GROUP BY p.id
		ORDER BY p.id
	`

	rows, err := r.db.Query(ctx, query, user.RoleAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.ProjectWithAgents{}
	for rows.Next() {
		var p project.ProjectWithAgents
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.Status, &p.Agents); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (name, description, start_date, end_date, status, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.Name, p.Description, p.StartDate, p.EndDate, p.Status,
	).Scan(&p.ID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Update replaces a project's fields and bumps updated_at.
func (r *ProjectRepository) Update(ctx context.Context, id int64, p *project.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, start_date = $3, end_date = $4,
		    status = $5, updated_at = now()
		WHERE id = $6
	`

	result, err := r.db.Exec(
		ctx, query,
		p.Name, p.Description, p.StartDate, p.EndDate, p.Status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// AssignAgent activates (or creates) the membership row for an agent on a
// project. Safe to call repeatedly.
func (r *ProjectRepository) AssignAgent(ctx context.Context, projectID, userID int64) error {
	query := `
		INSERT INTO user_projects (user_id, project_id, assigned_at, is_active)
		VALUES ($1, $2, now(), TRUE)
		ON CONFLICT (user_id, project_id)
		DO UPDATE SET is_active = TRUE, assigned_at = now()
	`

	if _, err := r.db.Exec(ctx, query, userID, projectID); err != nil {
		return fmt.Errorf("failed to assign agent: %w", err)
	}

	return nil
}

// UnassignAgent deactivates the membership row; the history row stays.
// Unassigning an agent who is not assigned is a no-op.
func (r *ProjectRepository) UnassignAgent(ctx context.Context, projectID, userID int64) error {
	query := `
		UPDATE user_projects SET is_active = FALSE
		WHERE user_id = $1 AND project_id = $2
	`

	if _, err := r.db.Exec(ctx, query, userID, projectID); err != nil {
		return fmt.Errorf("failed to unassign agent: %w", err)
	}

	return nil
}

// ListAgentsForProject returns every active agent reporting to the given
// supervisor with a flag for current membership in the project.
func (r *ProjectRepository) ListAgentsForProject(ctx context.Context, projectID, supervisorID int64) ([]project.ProjectAgent, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.username,
		       (up.id IS NOT NULL AND up.is_active) AS assigned
		FROM users u
		LEFT JOIN user_projects up
		  ON up.user_id = u.id AND up.project_id = $1
		WHERE u.role = $2 AND u.is_active = TRUE AND u.supervisor_id = $3
		ORDER BY u.id
	`

	rows, err := r.db.Query(ctx, query, projectID, user.RoleAgent, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	agents := []project.ProjectAgent{}
	for rows.Next() {
		var a project.ProjectAgent
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Username, &a.Assigned); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, a)
	}

	return agents, rows.Err()
}
