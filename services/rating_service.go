// File: /services/rating_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"cinefest-api/models"
	"cinefest-api/repositories"
)

// RatingService collects per-question ratings from eligible voters for a
// subscription whose screening has passed, and tracks completion against the
// expected voter count. Answer sets are all-or-nothing and immutable.
type RatingService struct {
	db       *gorm.DB
	subRepo  *repositories.SubscriptionRepository
	ansRepo  *repositories.AnswerRepository
	notifier Notifier
}

func NewRatingService(db *gorm.DB, notifier Notifier) *RatingService {
	return &RatingService{
		db:       db,
		subRepo:  repositories.NewSubscriptionRepository(db),
		ansRepo:  repositories.NewAnswerRepository(db),
		notifier: notifier,
	}
}

// Rate atomically records one answer per event question for a voter. A voter
// gets exactly one shot: partial sets, re-votes and self-votes are rejected
// with no rows written.
func (s *RatingService) Rate(voterID, subscriptionID string, inputs []models.AnswerInput) ([]models.Answer, error) {
	sub, err := s.subRepo.ByID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !sub.RatingOpen(time.Now()) {
		return nil, ErrNotRatingOpen
	}
	if !sub.Event.HasParticipant(voterID) {
		return nil, ErrForbidden
	}
	if sub.OwnerID == voterID {
		return nil, ErrSelfVote
	}

	required, err := s.eventQuestionIDs(sub.EventID)
	if err != nil {
		return nil, err
	}
	if len(required) == 0 {
		return nil, fmt.Errorf("%w: event has no award questions configured", ErrValidation)
	}
	if err := validateAnswerSet(required, inputs); err != nil {
		return nil, err
	}

	answers := make([]models.Answer, 0, len(inputs))
	for _, in := range inputs {
		answers = append(answers, models.Answer{
			QuestionID:     in.QuestionID,
			UserID:         voterID,
			SubscriptionID: subscriptionID,
			Value:          in.Value,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Answer{}).
			Where("subscription_id = ? AND user_id = ?", subscriptionID, voterID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateVote
		}

		if err := tx.Create(&answers).Error; err != nil {
			// The composite unique key on (subscription, user, question)
			// catches the race the pre-check cannot.
			if isUniqueViolation(err) {
				return ErrDuplicateVote
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return answers, nil
}

// Progress returns the completion state of a subscription's rating phase:
// distinct voters so far against the expected voter count.
func (s *RatingService) Progress(subscriptionID string) (votesReceived, expectedVoters int, err error) {
	sub, err := s.subRepo.ByID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, err
	}

	voters, err := s.ansRepo.DistinctVoters(subscriptionID)
	if err != nil {
		return 0, 0, err
	}

	return len(voters), sub.Event.ExpectedVoters(), nil
}

// InviteToFulfill reminds the participants who have not voted yet on a
// rating-open subscription. No state change; safe to invoke repeatedly.
func (s *RatingService) InviteToFulfill(subscriptionID string) error {
	sub, err := s.subRepo.ByID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !sub.RatingOpen(time.Now()) {
		return ErrNotRatingOpen
	}

	voters, err := s.ansRepo.DistinctVoters(subscriptionID)
	if err != nil {
		return err
	}
	voted := make(map[string]bool, len(voters))
	for _, v := range voters {
		voted[v] = true
	}

	var pending []models.User
	for _, p := range sub.Event.Participants {
		if p.UserID == sub.OwnerID || voted[p.UserID] {
			continue
		}
		pending = append(pending, p.User)
	}
	if len(pending) == 0 {
		// Fully rated; nothing to remind.
		return nil
	}

	go func(pending []models.User, event models.Event, sub models.Subscription) {
		if err := s.notifier.SendRatingReminderEmail(pending, event, sub); err != nil {
			fmt.Printf("Failed to send rating reminder email: %v\n", err)
		}
	}(pending, sub.Event, *sub)

	return nil
}

// eventQuestionIDs collects the question ids of every award configured for
// the event. A complete answer set must cover all of them.
func (s *RatingService) eventQuestionIDs(eventID string) ([]string, error) {
	var links []models.AwardInEvent
	err := s.db.Preload("Award").Preload("Award.Question").
		Where("event_id = ?", eventID).
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.Award.Question.ID)
	}
	return ids, nil
}

// validateAnswerSet checks the supplied answers cover every required question
// exactly once with values in range.
func validateAnswerSet(required []string, inputs []models.AnswerInput) error {
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.Value < models.MinAnswerValue || in.Value > models.MaxAnswerValue {
			return fmt.Errorf("%w: question %s got %d, want %d-%d",
				ErrOutOfRange, in.QuestionID, in.Value, models.MinAnswerValue, models.MaxAnswerValue)
		}
		if seen[in.QuestionID] {
			return fmt.Errorf("%w: duplicate answer for question %s", ErrIncompleteAnswerSet, in.QuestionID)
		}
		seen[in.QuestionID] = true
	}

	requiredSet := make(map[string]bool, len(required))
	for _, id := range required {
		requiredSet[id] = true
		if !seen[id] {
			return fmt.Errorf("%w: missing answer for question %s", ErrIncompleteAnswerSet, id)
		}
	}
	for id := range seen {
		if !requiredSet[id] {
			return fmt.Errorf("%w: question %s does not belong to this event", ErrIncompleteAnswerSet, id)
		}
	}

	return nil
}

// isUniqueViolation detects a composite-key conflict across the drivers we
// run against (MySQL in production, SQLite in tests).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
