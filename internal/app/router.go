// internal/app/router.go
package app

import (
	"leadtrack-service/internal/domain/user"
	authHandler "leadtrack-service/internal/handlers/auth"
	customerHandler "leadtrack-service/internal/handlers/customer"
	projectHandler "leadtrack-service/internal/handlers/project"
	"leadtrack-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	CustomerHandler *customerHandler.CustomerHandler
	ProjectHandler  *projectHandler.ProjectHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	// ==================== Health Check ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ==================== Public Auth Routes ====================
	authPublic := r.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := r.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.GET("/me", h.AuthHandler.GetMe)

		users := authProtected.Group("/users")
		users.Use(h.AuthMiddleware.RequireRole(user.RoleAdmin, user.RoleSupervisor))
		{
			users.POST("", h.AuthHandler.CreateUser)
			users.GET("", h.AuthHandler.ListUsers)
		}
	}

	// ==================== Agent Customer Assignments ====================
	customers := r.Group("/api/agent/customers")
	customers.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireRole(user.RoleAgent))
	{
		customers.POST("/search", h.CustomerHandler.Search)
		customers.POST("", h.CustomerHandler.Create)
		customers.GET("", h.CustomerHandler.List)
		customers.PUT("/:id", h.CustomerHandler.Update)
		customers.PATCH("/:id/complete", h.CustomerHandler.Complete)
		customers.GET("/:id/logs", h.CustomerHandler.History)
	}

	// ==================== Projects ====================
	projects := r.Group("/api/projects")
	projects.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireRole(user.RoleAdmin, user.RoleSupervisor))
	{
		projects.GET("", h.ProjectHandler.List)
		projects.POST("", h.ProjectHandler.Create)
		projects.PUT("/:id", h.ProjectHandler.Update)

		agents := projects.Group("/:id/agents")
		agents.Use(h.AuthMiddleware.RequireRole(user.RoleSupervisor))
		{
			agents.GET("", h.ProjectHandler.ListAgents)
			agents.POST("/:userId", h.ProjectHandler.AssignAgent)
			agents.DELETE("/:userId", h.ProjectHandler.UnassignAgent)
		}
	}
}
