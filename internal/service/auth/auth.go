// internal/service/auth/auth.go
package auth

import (
	"context"
	"database/sql"
	"fmt"

	"leadtrack-service/internal/domain/user"
	xerrors "leadtrack-service/internal/pkg/errors"
	"leadtrack-service/internal/pkg/jwt"
	"leadtrack-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the user persistence the service needs.
type UserStore interface {
	FindActiveByUsername(ctx context.Context, username string) (*user.User, error)
	FindByID(ctx context.Context, id int64) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListWithProjects(ctx context.Context) ([]user.UserWithProjects, error)
}

type AuthService struct {
	userRepo    UserStore
	jwtManager  *jwt.Manager
	rateLimiter *session.RateLimiter
	logger      *zap.Logger
}

func NewAuthService(userRepo UserStore, jwtManager *jwt.Manager, rateLimiter *session.RateLimiter, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtManager:  jwtManager,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// Login verifies credentials against the active-user set and issues a
// session token. Bad credentials and inactive accounts are both
// xerrors.ErrUnauthorized; the caller cannot tell them apart.
func (s *AuthService) Login(ctx context.Context, ip string, req *user.LoginRequest) (*user.LoginResponse, error) {
	allowed, _, err := s.rateLimiter.CheckLoginAttempt(ctx, ip, req.Username)
	if err != nil {
		// Fail open: a broken limiter must not lock out logins
		s.logger.Warn("login rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	u, err := s.userRepo.FindActiveByUsername(ctx, req.Username)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	token, jti, err := s.jwtManager.Generator.Generate(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, ip, req.Username); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.Int64("user_id", u.ID),
		zap.String("role", u.Role),
		zap.String("jti", jti),
	)

	return &user.LoginResponse{Token: token, Role: u.Role}, nil
}

// ValidateToken verifies a session token and returns its claims.
func (s *AuthService) ValidateToken(token string) (*jwt.Claims, error) {
	return s.jwtManager.Verifier.Verify(token)
}

// GetMe returns the profile of the authenticated user.
func (s *AuthService) GetMe(ctx context.Context, userID int64) (*user.MeResponse, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &user.MeResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Role:      u.Role,
	}, nil
}

// CreateUser creates a user on behalf of creatorID. ADMIN may create any
// role; SUPERVISOR may create only agents, who then report to that
// supervisor; anyone else is xerrors.ErrForbidden. A taken username is
// xerrors.ErrDuplicateEntry.
func (s *AuthService) CreateUser(ctx context.Context, creatorID int64, req *user.CreateUserRequest) (*user.User, error) {
	creator, err := s.userRepo.FindByID(ctx, creatorID)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	var supervisorID sql.NullInt64
	switch creator.Role {
	case user.RoleAdmin:
		// Admin can create any role
	case user.RoleSupervisor:
		if req.Role != user.RoleAgent {
			return nil, xerrors.ErrForbidden
		}
		supervisorID = sql.NullInt64{Int64: creator.ID, Valid: true}
	default:
		return nil, xerrors.ErrForbidden
	}

	if !user.ValidRole(req.Role) {
		return nil, xerrors.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		SupervisorID: supervisorID,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.Int64("user_id", u.ID),
		zap.String("role", u.Role),
		zap.Int64("creator_id", creatorID),
	)

	return u, nil
}

// ListUsers returns every user with their active project names.
func (s *AuthService) ListUsers(ctx context.Context) ([]user.UserWithProjects, error) {
	return s.userRepo.ListWithProjects(ctx)
}

// EnsureAdminExists creates the bootstrap ADMIN account if the username is
// not taken. Called once at startup.
func (s *AuthService) EnsureAdminExists(ctx context.Context, username, password, firstName, lastName string) error {
	if username == "" || password == "" {
		return nil
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check admin username: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	u := &user.User{
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap admin created", zap.Int64("user_id", u.ID))
	return nil
}
