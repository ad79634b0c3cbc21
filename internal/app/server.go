// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"time"

	"leadtrack-service/internal/config"
	"leadtrack-service/internal/db"
	authHandler "leadtrack-service/internal/handlers/auth"
	customerHandler "leadtrack-service/internal/handlers/customer"
	projectHandler "leadtrack-service/internal/handlers/project"
	"leadtrack-service/internal/middleware"
	"leadtrack-service/internal/pkg/jwt"
	"leadtrack-service/internal/pkg/session"
	"leadtrack-service/internal/repository/postgres"
	assignmentUsecase "leadtrack-service/internal/service/assignment"
	authUsecase "leadtrack-service/internal/service/auth"
	projectUsecase "leadtrack-service/internal/service/project"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg         config.AppConfig
	engine      *gin.Engine
	logger      *zap.Logger
	authService *authUsecase.AuthService
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	// The login rate limiter degrades to a no-op without Redis, so a
	// missing REDIS_ADDR is not fatal.
	rateLimiter := session.NewRateLimiter(nil)
	if s.cfg.RedisAddr != "" {
		redisClient, err := db.NewRedisClient(db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       0,
			PoolSize: 10,
		})
		if err != nil {
			logger.Warn("redis unavailable, login rate limiting disabled", zap.Error(err))
		} else {
			rateLimiter = session.NewRateLimiter(redisClient)
		}
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.NewManager(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)

	// ----- Services -----
	authService := authUsecase.NewAuthService(userRepo, jwtManager, rateLimiter, logger)
	s.authService = authService
	assignmentService := assignmentUsecase.NewAssignmentService(dbWrapper, customerRepo, assignmentRepo, logger)
	projectService := projectUsecase.NewProjectService(projectRepo, logger)

	// ----- Bootstrap Admin -----
	if err := s.initializeAdmin(); err != nil {
		logger.Error("failed to initialize admin account", zap.Error(err))
	}

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService)
	customerHandlerInst := customerHandler.NewCustomerHandler(assignmentService)
	projectHandlerInst := projectHandler.NewProjectHandler(projectService)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigin),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:     authHandlerInst,
		CustomerHandler: customerHandlerInst,
		ProjectHandler:  projectHandlerInst,
		AuthMiddleware:  authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}

// initializeAdmin seeds the first admin account from the environment so
// a fresh deployment has a login to create everyone else with.
func (s *Server) initializeAdmin() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.cfg.AdminUsername == "" || s.cfg.AdminPassword == "" {
		s.logger.Warn("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}
	if len(s.cfg.AdminPassword) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters")
	}

	return s.authService.EnsureAdminExists(ctx, s.cfg.AdminUsername, s.cfg.AdminPassword, s.cfg.AdminFirstName, s.cfg.AdminLastName)
}
