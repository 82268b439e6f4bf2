// File: /services/reveal_service.go
package services

import (
	"errors"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"cinefest-api/models"
	"cinefest-api/repositories"
)

// RevealService runs the event's reveal state machine after the submission
// window closes. Each call draws one still-hidden valid subscription
// uniformly at random and assigns it the next projection order. The per-event
// lock plus a single transaction make the draw exactly-once per call: two
// concurrent calls can never reveal the same subscription or reuse an order.
type RevealService struct {
	db      *gorm.DB
	locks   *EventLocks
	subRepo *repositories.SubscriptionRepository
}

func NewRevealService(db *gorm.DB, locks *EventLocks) *RevealService {
	return &RevealService{
		db:      db,
		locks:   locks,
		subRepo: repositories.NewSubscriptionRepository(db),
	}
}

// UnlockNext reveals the next subscription of the event. Returns true when a
// subscription was revealed, false when no hidden valid subscription remains.
// Not idempotent: every true result changed state exactly once.
func (s *RevealService) UnlockNext(eventID string) (bool, error) {
	var event models.Event
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	if event.SubmissionOpen(time.Now()) {
		return false, ErrWindowStillOpen
	}

	lock := s.locks.ForEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	revealed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		candidates, err := s.subRepo.HiddenValid(tx, eventID)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}

		next, err := s.subRepo.NextProjectionOrder(tx, eventID)
		if err != nil {
			return err
		}

		pick := candidates[rand.Intn(len(candidates))]
		if err := tx.Model(&models.Subscription{}).
			Where("id = ?", pick.ID).
			Update("projection_order", next).Error; err != nil {
			return err
		}

		revealed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return revealed, nil
}
