// File: /controllers/event_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinefest-api/models"
	"cinefest-api/repositories"
	"cinefest-api/services"
	"cinefest-api/utils"
)

type EventController struct {
	db                *gorm.DB
	invitationService *services.InvitationService
	revealService     *services.RevealService
	awardService      *services.AwardService
	answerRepo        *repositories.AnswerRepository
	subRepo           *repositories.SubscriptionRepository
}

func NewEventController(db *gorm.DB, invitationService *services.InvitationService, revealService *services.RevealService, awardService *services.AwardService) *EventController {
	return &EventController{
		db:                db,
		invitationService: invitationService,
		revealService:     revealService,
		awardService:      awardService,
		answerRepo:        repositories.NewAnswerRepository(db),
		subRepo:           repositories.NewSubscriptionRepository(db),
	}
}

type EventRequest struct {
	Name                  string    `json:"name" binding:"required"`
	Description           string    `json:"description" binding:"required"`
	IsActive              bool      `json:"is_active"`
	SubscriptionExpiresAt time.Time `json:"subscription_expires_at" binding:"required"`
	ExpiresAt             time.Time `json:"expires_at" binding:"required"`
	NumberOfParticipants  int       `json:"number_of_participants" binding:"required,min=2"`
}

// EventView is the event read model: everything about the event, with hidden
// subscriptions redacted for non-administrators. ValidSubscriptions tracks
// submission progress against the participant capacity.
type EventView struct {
	models.Event
	Subscriptions      []models.SubscriptionView `json:"subscriptions"`
	ValidSubscriptions int64                     `json:"valid_subscriptions"`
}

func (ec *EventController) GetEvents(c *gin.Context) {
	var events []models.Event
	if err := ec.db.Preload("Categories").Preload("Participants").Preload("Participants.User").
		Order("expires_at ASC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	utils.SendDocs(c, events)
}

func (ec *EventController) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ExpiresAt.Before(req.SubscriptionExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Award date must be after the submission deadline"})
		return
	}

	event := models.Event{
		ID:                    uuid.New().String(),
		Name:                  req.Name,
		Description:           req.Description,
		IsActive:              req.IsActive,
		SubscriptionExpiresAt: req.SubscriptionExpiresAt,
		ExpiresAt:             req.ExpiresAt,
		NumberOfParticipants:  req.NumberOfParticipants,
	}

	if err := ec.db.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvent serves the full event read model. Subscriptions that have not been
// revealed yet expose nothing but their existence, unless the caller is an
// administrator.
func (ec *EventController) GetEvent(c *gin.Context) {
	eventID := c.Param("id")
	isAdmin := c.GetString("role") == models.RoleAdmin

	var event models.Event
	if err := ec.db.
		Preload("Categories").
		Preload("Participants").
		Preload("Participants.User").
		Preload("Subscriptions").
		Preload("Awards").
		Preload("Awards.Award").
		Preload("Awards.Award.Question").
		First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	now := time.Now()
	expected := event.ExpectedVoters()
	views := make([]models.SubscriptionView, 0, len(event.Subscriptions))
	for i := range event.Subscriptions {
		sub := &event.Subscriptions[i]
		if !sub.Revealed() && !isAdmin {
			views = append(views, sub.RedactedView())
			continue
		}

		voters, err := ec.answerRepo.DistinctVoters(sub.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
			return
		}
		views = append(views, sub.View(now, len(voters), expected))
	}

	validCount, err := ec.subRepo.CountValid(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	event.Subscriptions = nil

	c.JSON(http.StatusOK, EventView{
		Event:              event,
		Subscriptions:      views,
		ValidSubscriptions: validCount,
	})
}

func (ec *EventController) UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":                    req.Name,
		"description":             req.Description,
		"is_active":               req.IsActive,
		"subscription_expires_at": req.SubscriptionExpiresAt,
		"expires_at":              req.ExpiresAt,
		"number_of_participants":  req.NumberOfParticipants,
	}

	if err := ec.db.Model(&event).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	utils.SendSuccess(c, "Event updated successfully", nil)
}

func (ec *EventController) DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var subCount int64
	ec.db.Model(&models.Subscription{}).Where("event_id = ?", eventID).Count(&subCount)
	if subCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Event has subscriptions"})
		return
	}

	ec.db.Where("event_id = ?", eventID).Delete(&models.EventParticipant{})
	ec.db.Where("event_id = ?", eventID).Delete(&models.EventSpecification{})
	ec.db.Where("event_id = ?", eventID).Delete(&models.AwardInEvent{})

	if err := ec.db.Delete(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	utils.SendSuccess(c, "Event deleted successfully", nil)
}

type AttachCategoryRequest struct {
	CategoryID string `json:"category_id" binding:"required"`
}

func (ec *EventController) AttachCategory(c *gin.Context) {
	eventID := c.Param("id")

	var req AttachCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var category models.Category
	if err := ec.db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	if err := ec.db.Model(&event).Association("Categories").Append(&category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach category"})
		return
	}

	utils.SendSuccess(c, "Category attached successfully", nil)
}

func (ec *EventController) DetachCategory(c *gin.Context) {
	eventID := c.Param("id")
	categoryID := c.Param("categoryId")

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var category models.Category
	if err := ec.db.First(&category, "id = ?", categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	if err := ec.db.Model(&event).Association("Categories").Delete(&category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach category"})
		return
	}

	utils.SendSuccess(c, "Category detached successfully", nil)
}

type AddParticipantRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (ec *EventController) AddParticipant(c *gin.Context) {
	eventID := c.Param("id")

	var req AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var event models.Event
	if err := ec.db.Preload("Participants").First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var user models.User
	if err := ec.db.First(&user, "id = ? AND deleted = ?", req.UserID, false).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if event.HasParticipant(req.UserID) {
		c.JSON(http.StatusConflict, gin.H{"error": "User already invited to this event"})
		return
	}

	// Advisory cap: the UI warns past capacity, the server does not block.
	participant := models.EventParticipant{
		EventID: eventID,
		UserID:  req.UserID,
	}
	if err := ec.db.Create(&participant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add participant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Participant added successfully",
		"over_capacity": len(event.Participants)+1 > event.NumberOfParticipants,
	})
}

func (ec *EventController) RemoveParticipant(c *gin.Context) {
	eventID := c.Param("id")
	userID := c.Param("userId")

	var participant models.EventParticipant
	if err := ec.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&participant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}

	var subCount int64
	ec.db.Model(&models.Subscription{}).
		Where("event_id = ? AND owner_id = ?", eventID, userID).Count(&subCount)
	if subCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Participant has subscriptions in this event"})
		return
	}

	if err := ec.db.Delete(&participant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove participant"})
		return
	}

	utils.SendSuccess(c, "Participant removed successfully", nil)
}

// InviteParticipants runs the category draw for every invited participant
// still lacking an assignment and emails the newly assigned ones.
func (ec *EventController) InviteParticipants(c *gin.Context) {
	eventID := c.Param("id")

	if err := ec.invitationService.InviteParticipants(eventID); err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendSuccess(c, "Participants invited successfully", nil)
}

// UnlockNext reveals the next subscription of the event in random order.
func (ec *EventController) UnlockNext(c *gin.Context) {
	eventID := c.Param("id")

	revealed, err := ec.revealService.UnlockNext(eventID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revealed": revealed})
}

// ComputeWinners recomputes the winner of every award of the event from the
// answers collected so far.
func (ec *EventController) ComputeWinners(c *gin.Context) {
	eventID := c.Param("id")

	links, err := ec.awardService.ComputeWinners(eventID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendDocs(c, links)
}

// GetForm serves the rating form of an event: its awards with their
// questions, ordered by ordinal.
func (ec *EventController) GetForm(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.
		Preload("Awards").
		Preload("Awards.Award").
		Preload("Awards.Award.Question").
		First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     event.ID,
		"name":   event.Name,
		"awards": event.Awards,
	})
}
