// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"leadtrack-service/internal/domain/user"
	xerrors "leadtrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// FindActiveByUsername retrieves an active user for login. Inactive
// accounts are indistinguishable from missing ones on this path.
func (r *UserRepository) FindActiveByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `
		SELECT id, first_name, last_name, username, password_hash, role,
		       supervisor_id, is_active, created_at, updated_at
		FROM users
		WHERE username = $1 AND is_active = TRUE
	`

	var u user.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.PasswordHash, &u.Role,
		&u.SupervisorID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

// FindByID retrieves a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, first_name, last_name, username, password_hash, role,
		       supervisor_id, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.PasswordHash, &u.Role,
		&u.SupervisorID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

// Create inserts a new user. A username collision surfaces as
// xerrors.ErrDuplicateEntry.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (first_name, last_name, username, password_hash, role, supervisor_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		u.FirstName, u.LastName, u.Username, u.PasswordHash, u.Role,
		u.SupervisorID, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if IsUniqueViolation(err) {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// ExistsByUsername checks whether a username is taken, active or not.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	return exists, err
}

// ListWithProjects returns every user with a comma-aggregated list of the
// active projects they are currently assigned to.
func (r *UserRepository) ListWithProjects(ctx context.Context) ([]user.UserWithProjects, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.username, u.role,
		       string_agg(p.name, ',' ORDER BY p.name)
		FROM users u
		LEFT JOIN user_projects up ON u.id = up.user_id AND up.is_active = TRUE
		LEFT JOIN projects p ON up.project_id = p.id AND p.is_active = TRUE
		GROUP BY u.id
		ORDER BY u.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []user.UserWithProjects{}
	for rows.Next() {
		var u user.UserWithProjects
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Role, &u.Projects); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
