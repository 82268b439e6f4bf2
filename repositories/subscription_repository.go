// File: /repositories/subscription_repository.go
package repositories

import (
	"database/sql"

	"gorm.io/gorm"

	"cinefest-api/models"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// ByID loads a subscription with its event (categories and participants
// preloaded) and category.
func (r *SubscriptionRepository) ByID(id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.
		Preload("Event").
		Preload("Event.Categories").
		Preload("Event.Participants").
		Preload("Event.Participants.User").
		Preload("Category").
		First(&sub, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ForOwner lists a participant's own subscriptions, newest first, with the
// event and category populated the way the home page renders them.
func (r *SubscriptionRepository) ForOwner(ownerID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.
		Preload("Event").
		Preload("Category").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

// HiddenValid lists the subscriptions of an event that are still eligible
// for the reveal draw: valid and without a projection order. Runs on the
// given handle so it can participate in the reveal transaction.
func (r *SubscriptionRepository) HiddenValid(tx *gorm.DB, eventID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := tx.
		Where("event_id = ? AND is_valid = ? AND projection_order IS NULL", eventID, true).
		Find(&subs).Error
	return subs, err
}

// NextProjectionOrder returns the next order value for an event: one past the
// highest already assigned, starting at 1. Must be called under the event
// lock and inside the reveal transaction.
func (r *SubscriptionRepository) NextProjectionOrder(tx *gorm.DB, eventID string) (int, error) {
	var highest sql.NullInt64
	err := tx.Model(&models.Subscription{}).
		Where("event_id = ?", eventID).
		Select("MAX(projection_order)").
		Scan(&highest).Error
	if err != nil {
		return 0, err
	}
	if !highest.Valid {
		return 1, nil
	}
	return int(highest.Int64) + 1, nil
}

// RevealStarted reports whether any subscription of the event has already
// been revealed. Once true, owners may no longer edit their entries.
func (r *SubscriptionRepository) RevealStarted(eventID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("event_id = ? AND projection_order IS NOT NULL", eventID).
		Count(&count).Error
	return count > 0, err
}

// CountValid counts the distinct valid subscriptions of an event, used by the
// read model to show progress against the participant capacity.
func (r *SubscriptionRepository) CountValid(eventID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("event_id = ? AND is_valid = ?", eventID, true).
		Count(&count).Error
	return count, err
}
