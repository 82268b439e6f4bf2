// File: /routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cinefest-api/config"
	"cinefest-api/controllers"
	"cinefest-api/middleware"
	"cinefest-api/services"
)

// SetupCORS allows the festival web client to call the API from another origin.
func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, notifier services.Notifier) {
	// Services
	locks := services.NewEventLocks()
	subscriptionService := services.NewSubscriptionService(db)
	invitationService := services.NewInvitationService(db, locks, notifier)
	revealService := services.NewRevealService(db, locks)
	planningService := services.NewPlanningService(db, notifier)
	ratingService := services.NewRatingService(db, notifier)
	awardService := services.NewAwardService(db)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret)
	eventController := controllers.NewEventController(db, invitationService, revealService, awardService)
	categoryController := controllers.NewCategoryController(db)
	awardController := controllers.NewAwardController(db)
	subscriptionController := controllers.NewSubscriptionController(db, subscriptionService, planningService, ratingService)
	answerController := controllers.NewAnswerController(db, ratingService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(20, 5))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authController.Profile)

		// Event routes
		events := protected.Group("/events")
		{
			events.GET("/", eventController.GetEvents)
			events.GET("/:id", eventController.GetEvent)
			events.GET("/:id/form", eventController.GetForm)
		}

		// Category routes
		categories := protected.Group("/categories")
		{
			categories.GET("/", categoryController.GetCategories)
		}

		// Award routes
		awards := protected.Group("/awards")
		{
			awards.GET("/", awardController.GetAwards)
		}

		// Subscription routes
		subscriptions := protected.Group("/subscriptions")
		{
			subscriptions.GET("/mine", subscriptionController.GetMySubscriptions)
			subscriptions.POST("/", subscriptionController.CreateSubscription)
			subscriptions.PUT("/:id", subscriptionController.UpdateSubscription)
			subscriptions.DELETE("/:id", subscriptionController.DeleteSubscription)
			subscriptions.POST("/:id/answers", answerController.Rate)
			subscriptions.GET("/:id/answers/mine", answerController.GetMyAnswers)
		}

		// Administrator routes
		admin := protected.Group("/")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/users", authController.GetUsers)

			admin.POST("/events", eventController.CreateEvent)
			admin.PUT("/events/:id", eventController.UpdateEvent)
			admin.DELETE("/events/:id", eventController.DeleteEvent)
			admin.POST("/events/:id/categories", eventController.AttachCategory)
			admin.DELETE("/events/:id/categories/:categoryId", eventController.DetachCategory)
			admin.POST("/events/:id/participants", eventController.AddParticipant)
			admin.DELETE("/events/:id/participants/:userId", eventController.RemoveParticipant)
			admin.POST("/events/:id/invite", eventController.InviteParticipants)
			admin.POST("/events/:id/unlock-next", eventController.UnlockNext)
			admin.POST("/events/:id/compute-winners", eventController.ComputeWinners)
			admin.POST("/events/:id/awards", awardController.LinkAward)
			admin.DELETE("/events/:id/awards/:awardId", awardController.UnlinkAward)

			admin.POST("/categories", categoryController.CreateCategory)
			admin.PUT("/categories/:id", categoryController.UpdateCategory)
			admin.DELETE("/categories/:id", categoryController.DeleteCategory)

			admin.POST("/awards", awardController.CreateAward)
			admin.PUT("/awards/:id", awardController.UpdateAward)
			admin.DELETE("/awards/:id", awardController.DeleteAward)

			admin.PATCH("/subscriptions/:id/invalidate", subscriptionController.InvalidateSubscription)
			admin.PATCH("/subscriptions/:id/planning", subscriptionController.UpdatePlanning)
			admin.POST("/subscriptions/:id/invite-to-fulfill", subscriptionController.InviteToFulfill)
			admin.GET("/subscriptions/:id/answers", answerController.GetAnswers)
		}
	}
}
