// File: /services/award_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cinefest-api/models"
)

// AwardService computes award winners from the collected ratings.
type AwardService struct {
	db *gorm.DB
}

func NewAwardService(db *gorm.DB) *AwardService {
	return &AwardService{db: db}
}

// ComputeWinners determines, for every award of the event, the valid
// subscription with the highest average answer value and stores it as the
// winner. Awards without any answers keep a nil winner. Recomputation is
// allowed; each run overwrites the previous result from the current answers.
func (s *AwardService) ComputeWinners(eventID string) ([]models.AwardInEvent, error) {
	var event models.Event
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var links []models.AwardInEvent
	if err := s.db.Preload("Award").Preload("Award.Question").
		Where("event_id = ?", eventID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: event has no awards configured", ErrValidation)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range links {
			link := &links[i]
			winnerID, err := s.winnerForQuestion(tx, eventID, link.Award.Question.ID)
			if err != nil {
				return err
			}

			if err := tx.Model(&models.AwardInEvent{}).
				Where("id = ?", link.ID).
				Update("winner_id", winnerID).Error; err != nil {
				return err
			}
			link.WinnerID = winnerID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return links, nil
}

type standingRow struct {
	SubscriptionID string
	AvgValue       float64
	Votes          int64
}

// winnerForQuestion ranks the event's valid subscriptions by average answer
// value for one question. Ties break on vote count, then on subscription id
// for determinism.
func (s *AwardService) winnerForQuestion(tx *gorm.DB, eventID, questionID string) (*string, error) {
	var rows []standingRow
	err := tx.Model(&models.Answer{}).
		Select("answers.subscription_id AS subscription_id, AVG(answers.value) AS avg_value, COUNT(*) AS votes").
		Joins("JOIN subscriptions ON subscriptions.id = answers.subscription_id").
		Where("answers.question_id = ? AND subscriptions.event_id = ? AND subscriptions.is_valid = ?",
			questionID, eventID, true).
		Group("answers.subscription_id").
		Order("avg_value DESC, votes DESC, subscription_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0].SubscriptionID, nil
}
