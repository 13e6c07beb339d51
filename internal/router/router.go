package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/teamsync-app/backend/internal/handlers"
	"github.com/teamsync-app/backend/internal/middleware"
	"github.com/teamsync-app/backend/internal/models"
	"github.com/teamsync-app/backend/internal/repositories"
	"github.com/teamsync-app/backend/internal/services"
	"github.com/teamsync-app/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	mongoDB := mgClient.Database(cfg.MongoDBName)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	workspaceRepo := repositories.NewMongoWorkspaceRepository(mongoDB)
	taskRepo := repositories.NewMongoTaskRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)

	// --- Initialize Services ---
	commentService := services.NewCommentService(commentRepo, taskRepo, userRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// Workspace routes
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceRepo)
	workspaceHandler.RegisterWorkspaceRoutes(api)
	log.Println("Workspace routes configured.")

	// Task routes
	taskHandler := handlers.NewTaskHandler(taskRepo, workspaceRepo)
	taskHandler.RegisterTaskRoutes(api)
	log.Println("Task routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	log.Println("All routes configured.")
}
