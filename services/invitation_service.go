// File: /services/invitation_service.go
package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"cinefest-api/models"
)

// InvitationService distributes an event's categories to its invited
// participants. Each participant gets one category, drawn uniformly at
// random; collisions across participants are allowed. An assignment, once
// written, is never overwritten, so re-invoking the operation only fills
// the gaps.
type InvitationService struct {
	db       *gorm.DB
	locks    *EventLocks
	notifier Notifier
}

func NewInvitationService(db *gorm.DB, locks *EventLocks, notifier Notifier) *InvitationService {
	return &InvitationService{
		db:       db,
		locks:    locks,
		notifier: notifier,
	}
}

// InviteParticipants assigns a category to every invited participant of the
// event that does not have one yet, and emails each newly assigned
// participant. The precondition check is all-or-nothing: with more categories
// than participants nothing is written.
func (s *InvitationService) InviteParticipants(eventID string) error {
	lock := s.locks.ForEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	var event models.Event
	if err := s.db.Preload("Categories").Preload("Participants").Preload("Participants.User").
		First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if len(event.Categories) == 0 {
		return fmt.Errorf("%w: event has no categories", ErrValidation)
	}
	if len(event.Categories) > len(event.Participants) {
		return ErrInsufficientParticipants
	}
	if !event.SubmissionOpen(time.Now()) {
		return ErrSubmissionWindowClosed
	}

	type assignment struct {
		user     models.User
		category models.Category
	}
	var assigned []assignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, participant := range event.Participants {
			var existing models.EventSpecification
			err := tx.Where("event_id = ? AND participant_id = ?", eventID, participant.UserID).
				First(&existing).Error
			if err == nil {
				// Already pinned; idempotent per participant.
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			category := event.Categories[rand.Intn(len(event.Categories))]
			spec := models.EventSpecification{
				EventID:       eventID,
				ParticipantID: participant.UserID,
				CategoryID:    category.ID,
			}
			if err := tx.Create(&spec).Error; err != nil {
				return err
			}

			assigned = append(assigned, assignment{user: participant.User, category: category})
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Notifications are decoupled from the assignment writes: a failed email
	// never rolls back a pinning.
	for _, a := range assigned {
		go func(a assignment) {
			if err := s.notifier.SendCategoryAssignedEmail(a.user, event, a.category); err != nil {
				fmt.Printf("Failed to send category assignment email: %v\n", err)
			}
		}(a)
	}

	return nil
}
