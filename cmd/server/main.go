package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/task-tracker-api/internal/config"
	"github.com/kawasemi/task-tracker-api/internal/database"
	"github.com/kawasemi/task-tracker-api/internal/handlers"
	"github.com/kawasemi/task-tracker-api/internal/middleware"
	"github.com/kawasemi/task-tracker-api/internal/repository"
	"github.com/kawasemi/task-tracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.GetDB())
	categoryRepo := repository.NewCategoryRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	// Initialize services
	tokenService := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpirationSeconds)*time.Second)
	authService := services.NewAuthService(userRepo, tokenService)
	categoryService := services.NewCategoryService(categoryRepo)
	taskService := services.NewTaskService(taskRepo, categoryRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint (unauthenticated liveness probe)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "task-tracker-api",
		})
	})

	requireAuth := middleware.RequireAuth(tokenService)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Category routes (protected, shared across users)
		categories := api.Group("/categories")
		categories.Use(requireAuth)
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		// Task routes (protected, owner-scoped)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Statistics route
		api.GET("/stats", requireAuth, taskHandler.GetStats)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
