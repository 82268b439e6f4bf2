// File: /repositories/answer_repository.go
package repositories

import (
	"gorm.io/gorm"

	"cinefest-api/models"
)

type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// ForSubscription lists every answer recorded for a subscription.
func (r *AnswerRepository) ForSubscription(subscriptionID string) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.
		Where("subscription_id = ?", subscriptionID).
		Order("question_id").
		Find(&answers).Error
	return answers, err
}

// ForVoter lists the answers one voter gave on a subscription.
func (r *AnswerRepository) ForVoter(subscriptionID, userID string) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.
		Where("subscription_id = ? AND user_id = ?", subscriptionID, userID).
		Order("question_id").
		Find(&answers).Error
	return answers, err
}

// DistinctVoters returns the ids of users who have answered a subscription.
// Its length is the "votes received" count of the completion tracker.
func (r *AnswerRepository) DistinctVoters(subscriptionID string) ([]string, error) {
	var voters []string
	err := r.db.Model(&models.Answer{}).
		Where("subscription_id = ?", subscriptionID).
		Distinct("user_id").
		Pluck("user_id", &voters).Error
	return voters, err
}

// HasAnswers reports whether any answer references the subscription.
// Deletion of a subscription is blocked while this holds.
func (r *AnswerRepository) HasAnswers(subscriptionID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Answer{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&count).Error
	return count > 0, err
}
