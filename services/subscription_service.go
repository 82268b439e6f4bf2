// File: /services/subscription_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinefest-api/models"
	"cinefest-api/repositories"
)

// SubscriptionService is the validity gate of the submission phase: it decides
// which subscriptions count toward an event and blocks writes once the
// submission window has closed or the reveal process has started.
type SubscriptionService struct {
	db      *gorm.DB
	subRepo *repositories.SubscriptionRepository
	ansRepo *repositories.AnswerRepository

	// InvalidateIsPermanent controls whether an administrator invalidation
	// bars the owner from restoring validity by editing. When false (the
	// default) an owner edit inside the submission window revalidates the
	// entry; resubmission is always possible either way.
	InvalidateIsPermanent bool
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{
		db:      db,
		subRepo: repositories.NewSubscriptionRepository(db),
		ansRepo: repositories.NewAnswerRepository(db),
	}
}

// SubscriptionInput carries the owner-editable fields of a subscription.
type SubscriptionInput struct {
	EventID    string
	CategoryID string
	MovieName  string
}

// Create registers a new movie candidacy for an invited participant. The
// subscription is valid immediately when every structural constraint holds.
func (s *SubscriptionService) Create(ownerID string, in SubscriptionInput) (*models.Subscription, error) {
	if strings.TrimSpace(in.MovieName) == "" {
		return nil, fmt.Errorf("%w: movie name is required", ErrValidation)
	}

	var event models.Event
	if err := s.db.Preload("Categories").Preload("Participants").
		First(&event, "id = ?", in.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !event.SubmissionOpen(time.Now()) {
		return nil, ErrSubmissionWindowClosed
	}
	if !event.HasParticipant(ownerID) {
		return nil, ErrForbidden
	}
	if err := s.checkCategory(&event, ownerID, in.CategoryID); err != nil {
		return nil, err
	}

	sub := models.Subscription{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		EventID:    in.EventID,
		CategoryID: in.CategoryID,
		MovieName:  strings.TrimSpace(in.MovieName),
		IsValid:    true,
	}

	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}

	return &sub, nil
}

// Update edits an owner's subscription. Rejected once the event's reveal
// process has started; before that, edits are unrestricted for the owner
// while the submission window is open.
func (s *SubscriptionService) Update(callerID, subscriptionID string, in SubscriptionInput) (*models.Subscription, error) {
	sub, err := s.subRepo.ByID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if sub.OwnerID != callerID {
		return nil, ErrForbidden
	}
	if !sub.Event.SubmissionOpen(time.Now()) {
		return nil, ErrSubmissionWindowClosed
	}

	started, err := s.subRepo.RevealStarted(sub.EventID)
	if err != nil {
		return nil, err
	}
	if started {
		return nil, ErrRevealStarted
	}

	if strings.TrimSpace(in.MovieName) == "" {
		return nil, fmt.Errorf("%w: movie name is required", ErrValidation)
	}
	if err := s.checkCategory(&sub.Event, callerID, in.CategoryID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"movie_name":  strings.TrimSpace(in.MovieName),
		"category_id": in.CategoryID,
	}
	if !s.InvalidateIsPermanent {
		// An edit inside the window restores validity after an
		// administrator invalidation.
		updates["is_valid"] = true
	}

	if err := s.db.Model(sub).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.subRepo.ByID(subscriptionID)
}

// Invalidate is the administrator override: it forces the subscription out of
// the valid set unconditionally. The owner must resubmit (or, under the
// default policy, edit) while the window is still open to become valid again.
func (s *SubscriptionService) Invalidate(subscriptionID string) error {
	result := s.db.Model(&models.Subscription{}).
		Where("id = ?", subscriptionID).
		Update("is_valid", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a subscription. Blocked once answers reference it: orphaned
// ratings would corrupt the award computation.
func (s *SubscriptionService) Delete(callerID string, isAdmin bool, subscriptionID string) error {
	var sub models.Subscription
	if err := s.db.First(&sub, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if sub.OwnerID != callerID && !isAdmin {
		return ErrForbidden
	}

	hasAnswers, err := s.ansRepo.HasAnswers(subscriptionID)
	if err != nil {
		return err
	}
	if hasAnswers {
		return ErrHasAnswers
	}

	return s.db.Delete(&sub).Error
}

// checkCategory enforces that the category belongs to the event and, once a
// pinning exists, matches the participant's assigned category.
func (s *SubscriptionService) checkCategory(event *models.Event, ownerID, categoryID string) error {
	if !event.HasCategory(categoryID) {
		return ErrCategoryMismatch
	}

	var spec models.EventSpecification
	err := s.db.Where("event_id = ? AND participant_id = ?", event.ID, ownerID).
		First(&spec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No pinning yet: any event category is allowed.
			return nil
		}
		return err
	}
	if spec.CategoryID != categoryID {
		return ErrCategoryMismatch
	}
	return nil
}
