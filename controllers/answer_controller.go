// File: /controllers/answer_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cinefest-api/models"
	"cinefest-api/repositories"
	"cinefest-api/services"
	"cinefest-api/utils"
)

type AnswerController struct {
	db            *gorm.DB
	ratingService *services.RatingService
	answerRepo    *repositories.AnswerRepository
}

func NewAnswerController(db *gorm.DB, ratingService *services.RatingService) *AnswerController {
	return &AnswerController{
		db:            db,
		ratingService: ratingService,
		answerRepo:    repositories.NewAnswerRepository(db),
	}
}

type RateRequest struct {
	Answers []models.AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

// Rate records the caller's complete answer set for a subscription.
func (ac *AnswerController) Rate(c *gin.Context) {
	userID := c.GetString("user_id")
	subscriptionID := c.Param("id")

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answers, err := ac.ratingService.Rate(userID, subscriptionID, req.Answers)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"docs": answers})
}

// GetMyAnswers returns the caller's own answers for a subscription, so the
// client can show the rating as already submitted.
func (ac *AnswerController) GetMyAnswers(c *gin.Context) {
	userID := c.GetString("user_id")
	subscriptionID := c.Param("id")

	answers, err := ac.answerRepo.ForVoter(subscriptionID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}

	utils.SendDocs(c, answers)
}

// GetAnswers returns every answer recorded for a subscription together with
// the voting progress.
func (ac *AnswerController) GetAnswers(c *gin.Context) {
	subscriptionID := c.Param("id")

	answers, err := ac.answerRepo.ForSubscription(subscriptionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}

	received, expected, err := ac.ratingService.Progress(subscriptionID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"docs":            answers,
		"votes_received":  received,
		"expected_voters": expected,
	})
}
