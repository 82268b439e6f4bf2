// File: /controllers/award_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinefest-api/models"
	"cinefest-api/utils"
)

type AwardController struct {
	db *gorm.DB
}

func NewAwardController(db *gorm.DB) *AwardController {
	return &AwardController{db: db}
}

type AwardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Ordinal     int    `json:"ordinal" binding:"required,min=1"`
	Question    string `json:"question" binding:"required"`
}

func (ac *AwardController) GetAwards(c *gin.Context) {
	var awards []models.Award
	if err := ac.db.Preload("Question").Find(&awards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch awards"})
		return
	}

	utils.SendDocs(c, awards)
}

// CreateAward creates an award together with its single rating question.
func (ac *AwardController) CreateAward(c *gin.Context) {
	var req AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	award := models.Award{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
	}

	err := ac.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&award).Error; err != nil {
			return err
		}
		question := models.Question{
			ID:      uuid.New().String(),
			AwardID: award.ID,
			Ordinal: req.Ordinal,
			Text:    req.Question,
		}
		return tx.Create(&question).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create award"})
		return
	}

	if err := ac.db.Preload("Question").First(&award, "id = ?", award.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch award"})
		return
	}

	c.JSON(http.StatusCreated, award)
}

func (ac *AwardController) UpdateAward(c *gin.Context) {
	awardID := c.Param("id")

	var award models.Award
	if err := ac.db.Preload("Question").First(&award, "id = ?", awardID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Award not found"})
		return
	}

	var req AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Rewording a question that already has answers would change their
	// meaning retroactively.
	if award.Question.ID != "" && req.Question != award.Question.Text {
		var answerCount int64
		ac.db.Model(&models.Answer{}).Where("question_id = ?", award.Question.ID).Count(&answerCount)
		if answerCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Question already has answers"})
			return
		}
	}

	err := ac.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&award).Updates(map[string]interface{}{
			"name":        req.Name,
			"description": req.Description,
		}).Error; err != nil {
			return err
		}
		if award.Question.ID == "" {
			return tx.Create(&models.Question{
				ID:      uuid.New().String(),
				AwardID: award.ID,
				Ordinal: req.Ordinal,
				Text:    req.Question,
			}).Error
		}
		return tx.Model(&award.Question).Updates(map[string]interface{}{
			"ordinal": req.Ordinal,
			"text":    req.Question,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update award"})
		return
	}

	utils.SendSuccess(c, "Award updated successfully", nil)
}

func (ac *AwardController) DeleteAward(c *gin.Context) {
	awardID := c.Param("id")

	var award models.Award
	if err := ac.db.Preload("Question").First(&award, "id = ?", awardID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Award not found"})
		return
	}

	var linkCount int64
	ac.db.Model(&models.AwardInEvent{}).Where("award_id = ?", awardID).Count(&linkCount)
	if linkCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Award is linked to an event"})
		return
	}

	err := ac.db.Transaction(func(tx *gorm.DB) error {
		if award.Question.ID != "" {
			if err := tx.Delete(&award.Question).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&award).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete award"})
		return
	}

	utils.SendSuccess(c, "Award deleted successfully", nil)
}

type LinkAwardRequest struct {
	AwardID string `json:"award_id" binding:"required"`
}

// LinkAward puts an award in play for an event.
func (ac *AwardController) LinkAward(c *gin.Context) {
	eventID := c.Param("id")

	var req LinkAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var event models.Event
	if err := ac.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var award models.Award
	if err := ac.db.First(&award, "id = ?", req.AwardID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Award not found"})
		return
	}

	var existing int64
	ac.db.Model(&models.AwardInEvent{}).
		Where("event_id = ? AND award_id = ?", eventID, req.AwardID).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Award already linked to this event"})
		return
	}

	link := models.AwardInEvent{
		EventID: eventID,
		AwardID: req.AwardID,
	}
	if err := ac.db.Create(&link).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link award"})
		return
	}

	utils.SendCreated(c, "Award linked successfully", link)
}

func (ac *AwardController) UnlinkAward(c *gin.Context) {
	eventID := c.Param("id")
	awardID := c.Param("awardId")

	var link models.AwardInEvent
	if err := ac.db.Preload("Award").Preload("Award.Question").
		Where("event_id = ? AND award_id = ?", eventID, awardID).
		First(&link).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Award link not found"})
		return
	}

	if link.Award.Question.ID != "" {
		var answerCount int64
		ac.db.Model(&models.Answer{}).
			Joins("JOIN subscriptions ON subscriptions.id = answers.subscription_id").
			Where("answers.question_id = ? AND subscriptions.event_id = ?", link.Award.Question.ID, eventID).
			Count(&answerCount)
		if answerCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Award already has answers in this event"})
			return
		}
	}

	if err := ac.db.Delete(&link).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlink award"})
		return
	}

	utils.SendSuccess(c, "Award unlinked successfully", nil)
}
