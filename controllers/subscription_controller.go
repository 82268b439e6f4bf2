// File: /controllers/subscription_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cinefest-api/models"
	"cinefest-api/repositories"
	"cinefest-api/services"
	"cinefest-api/utils"
)

type SubscriptionController struct {
	db                  *gorm.DB
	subRepo             *repositories.SubscriptionRepository
	subscriptionService *services.SubscriptionService
	planningService     *services.PlanningService
	ratingService       *services.RatingService
}

func NewSubscriptionController(db *gorm.DB, subscriptionService *services.SubscriptionService, planningService *services.PlanningService, ratingService *services.RatingService) *SubscriptionController {
	return &SubscriptionController{
		db:                  db,
		subRepo:             repositories.NewSubscriptionRepository(db),
		subscriptionService: subscriptionService,
		planningService:     planningService,
		ratingService:       ratingService,
	}
}

// GetMySubscriptions lists the caller's own submissions across all events.
func (sc *SubscriptionController) GetMySubscriptions(c *gin.Context) {
	userID := c.GetString("user_id")

	subscriptions, err := sc.subRepo.ForOwner(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	utils.SendDocs(c, subscriptions)
}

type SubscriptionRequest struct {
	EventID    string `json:"event_id" binding:"required"`
	CategoryID string `json:"category_id" binding:"required"`
	MovieName  string `json:"movie_name" binding:"required"`
}

func (req SubscriptionRequest) toInput() services.SubscriptionInput {
	return services.SubscriptionInput{
		EventID:    req.EventID,
		CategoryID: req.CategoryID,
		MovieName:  req.MovieName,
	}
}

func (sc *SubscriptionController) CreateSubscription(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscription, err := sc.subscriptionService.Create(userID, req.toInput())
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subscription)
}

func (sc *SubscriptionController) UpdateSubscription(c *gin.Context) {
	userID := c.GetString("user_id")
	subscriptionID := c.Param("id")

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscription, err := sc.subscriptionService.Update(userID, subscriptionID, req.toInput())
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscription)
}

func (sc *SubscriptionController) DeleteSubscription(c *gin.Context) {
	userID := c.GetString("user_id")
	isAdmin := c.GetString("role") == models.RoleAdmin
	subscriptionID := c.Param("id")

	if err := sc.subscriptionService.Delete(userID, isAdmin, subscriptionID); err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendSuccess(c, "Subscription deleted successfully", nil)
}

// InvalidateSubscription flags a submission as out of competition.
func (sc *SubscriptionController) InvalidateSubscription(c *gin.Context) {
	subscriptionID := c.Param("id")

	if err := sc.subscriptionService.Invalidate(subscriptionID); err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendSuccess(c, "Subscription invalidated", nil)
}

type PlanningRequest struct {
	ProjectAt time.Time `json:"project_at" binding:"required"`
	Location  string    `json:"location" binding:"required"`
}

// UpdatePlanning schedules or reschedules the screening of a revealed movie.
func (sc *SubscriptionController) UpdatePlanning(c *gin.Context) {
	subscriptionID := c.Param("id")

	var req PlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscription, err := sc.planningService.UpdatePlanning(subscriptionID, req.ProjectAt, req.Location)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscription)
}

// InviteToFulfill nudges the participants who still owe a rating.
func (sc *SubscriptionController) InviteToFulfill(c *gin.Context) {
	subscriptionID := c.Param("id")

	if err := sc.ratingService.InviteToFulfill(subscriptionID); err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendSuccess(c, "Reminders sent", nil)
}
