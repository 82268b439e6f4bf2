// File: /main.go
package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"cinefest-api/config"
	"cinefest-api/database"
	"cinefest-api/jobs"
	"cinefest-api/middleware"
	"cinefest-api/routes"
	"cinefest-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Recovery())

	// Setup CORS middleware
	router.Use(routes.SetupCORS())

	// Request logging middleware
	router.Use(middleware.RequestLogger())

	// Security headers
	router.Use(middleware.SecurityHeaders())

	// Email notifications
	emailService := services.NewEmailService(cfg)

	// Setup routes
	routes.SetupRoutes(router, db, cfg, emailService)

	// Deactivate events past their award date
	expiryJob := jobs.NewEventExpiryJob(db, time.Hour)
	expiryJob.Start()
	defer expiryJob.Stop()

	// Start server
	log.Printf("Starting CineFest API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
