// File: /services/planning_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cinefest-api/models"
	"cinefest-api/repositories"
)

// PlanningService records the screening date and location of a revealed
// subscription. Plans stay editable until the scheduled time has passed;
// after that the plan freezes and the rating phase is considered open.
type PlanningService struct {
	db       *gorm.DB
	subRepo  *repositories.SubscriptionRepository
	notifier Notifier
}

func NewPlanningService(db *gorm.DB, notifier Notifier) *PlanningService {
	return &PlanningService{
		db:       db,
		subRepo:  repositories.NewSubscriptionRepository(db),
		notifier: notifier,
	}
}

// UpdatePlanning sets (or re-sets) projectAt and location on a revealed
// subscription and informs the event's participants by email. Each
// successful re-plan re-sends the informational email.
func (s *PlanningService) UpdatePlanning(subscriptionID string, projectAt time.Time, location string) (*models.Subscription, error) {
	sub, err := s.subRepo.ByID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	if !sub.Revealed() {
		return nil, ErrNotRevealedYet
	}
	if sub.PlanningLocked(now) {
		return nil, ErrPlanningLocked
	}
	if projectAt.Before(now) {
		return nil, fmt.Errorf("%w: projection date must be in the future", ErrValidation)
	}

	updates := map[string]interface{}{
		"project_at": projectAt,
		"location":   location,
	}
	if err := s.db.Model(&models.Subscription{}).
		Where("id = ?", subscriptionID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	updated, err := s.subRepo.ByID(subscriptionID)
	if err != nil {
		return nil, err
	}

	recipients := make([]models.User, 0, len(updated.Event.Participants))
	for _, p := range updated.Event.Participants {
		recipients = append(recipients, p.User)
	}
	go func(recipients []models.User, event models.Event, sub models.Subscription) {
		if err := s.notifier.SendProjectionPlannedEmail(recipients, event, sub); err != nil {
			fmt.Printf("Failed to send projection planned email: %v\n", err)
		}
	}(recipients, updated.Event, *updated)

	return updated, nil
}
