// internal/handlers/auth/auth_handler.go
package auth

import (
	"context"
	"net/http"

	"leadtrack-service/internal/domain/user"
	"leadtrack-service/internal/middleware"
	xerrors "leadtrack-service/internal/pkg/errors"
	"leadtrack-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthService is the auth surface the handler depends on.
type AuthService interface {
	Login(ctx context.Context, ip string, req *user.LoginRequest) (*user.LoginResponse, error)
	GetMe(ctx context.Context, userID int64) (*user.MeResponse, error)
	CreateUser(ctx context.Context, creatorID int64, req *user.CreateUserRequest) (*user.User, error)
	ListUsers(ctx context.Context) ([]user.UserWithProjects, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a session token. The token is
// also set as an http-only cookie for the cookie deployment variant.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "username and password are required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), c.ClientIP(), &req)
	if err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrRateLimited):
			response.Error(c, http.StatusTooManyRequests, "too many login attempts")
		case xerrors.Is(err, xerrors.ErrUnauthorized):
			response.Unauthorized(c, "invalid credentials")
		default:
			response.Error(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	c.SetCookie("token", result.Token, 0, "/", "", false, true)
	response.JSON(c, http.StatusOK, result)
}

// GetMe returns the authenticated user's profile.
func (h *AuthHandler) GetMe(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	me, err := h.authService.GetMe(c.Request.Context(), claims.UserID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "server error")
		return
	}

	response.JSON(c, http.StatusOK, me)
}

// CreateUser creates a user on behalf of the authenticated caller. The
// creator-role rules live in the service.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid user payload")
		return
	}

	if _, err := h.authService.CreateUser(c.Request.Context(), claims.UserID, &req); err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "not allowed to create this role")
		case xerrors.Is(err, xerrors.ErrDuplicateEntry):
			response.Error(c, http.StatusConflict, "username already taken")
		case xerrors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid role")
		default:
			response.Error(c, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	response.JSON(c, http.StatusCreated, response.Message{Message: "user created"})
}

// ListUsers returns all users with their active project names.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to fetch users")
		return
	}

	response.JSON(c, http.StatusOK, users)
}
