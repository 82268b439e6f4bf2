// File: /services/testutil_test.go
package services

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cinefest-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Event{},
		&models.EventParticipant{},
		&models.EventSpecification{},
		&models.Subscription{},
		&models.Award{},
		&models.Question{},
		&models.AwardInEvent{},
		&models.Answer{},
	))

	return db
}

// stubNotifier records notification calls instead of dialing SMTP.
type stubNotifier struct {
	mu                sync.Mutex
	categoryAssigned  []string // recipient emails
	projectionPlanned []string
	ratingReminders   []string
}

func (n *stubNotifier) SendCategoryAssignedEmail(to models.User, event models.Event, category models.Category) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.categoryAssigned = append(n.categoryAssigned, to.Email)
	return nil
}

func (n *stubNotifier) SendProjectionPlannedEmail(to []models.User, event models.Event, sub models.Subscription) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, u := range to {
		n.projectionPlanned = append(n.projectionPlanned, u.Email)
	}
	return nil
}

func (n *stubNotifier) SendRatingReminderEmail(to []models.User, event models.Event, sub models.Subscription) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, u := range to {
		n.ratingReminders = append(n.ratingReminders, u.Email)
	}
	return nil
}

func (n *stubNotifier) categoryAssignedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.categoryAssigned)
}

func (n *stubNotifier) ratingReminderCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.ratingReminders)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$10$dummy",
		Role:     models.RoleParticipant,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()

	category := models.Category{
		ID:   uuid.New().String(),
		Name: name,
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

// createTestEvent builds an active event with an open submission window, the
// given categories attached and every user invited.
func createTestEvent(t *testing.T, db *gorm.DB, categories []models.Category, participants []models.User, capacity int) models.Event {
	t.Helper()

	event := models.Event{
		ID:                    uuid.New().String(),
		Name:                  "Test Festival",
		Description:           "test",
		IsActive:              true,
		SubscriptionExpiresAt: time.Now().Add(24 * time.Hour),
		ExpiresAt:             time.Now().Add(30 * 24 * time.Hour),
		NumberOfParticipants:  capacity,
	}
	require.NoError(t, db.Create(&event).Error)

	for _, c := range categories {
		c := c
		require.NoError(t, db.Model(&event).Association("Categories").Append(&c))
	}
	for _, u := range participants {
		require.NoError(t, db.Create(&models.EventParticipant{
			EventID: event.ID,
			UserID:  u.ID,
		}).Error)
	}

	return event
}

func closeSubmissionWindow(t *testing.T, db *gorm.DB, eventID string) {
	t.Helper()
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", eventID).
		Update("subscription_expires_at", time.Now().Add(-time.Hour)).Error)
}

func createTestSubscription(t *testing.T, db *gorm.DB, event models.Event, owner models.User, category models.Category) models.Subscription {
	t.Helper()

	sub := models.Subscription{
		ID:         uuid.New().String(),
		OwnerID:    owner.ID,
		EventID:    event.ID,
		CategoryID: category.ID,
		MovieName:  "Test Movie",
		IsValid:    true,
	}
	require.NoError(t, db.Create(&sub).Error)
	return sub
}

// createTestAward attaches an award with one question to the event.
func createTestAward(t *testing.T, db *gorm.DB, event models.Event, ordinal int) models.Question {
	t.Helper()

	award := models.Award{
		ID:   uuid.New().String(),
		Name: "Best Something",
	}
	require.NoError(t, db.Create(&award).Error)

	question := models.Question{
		ID:      uuid.New().String(),
		AwardID: award.ID,
		Ordinal: ordinal,
		Text:    "How good was it?",
	}
	require.NoError(t, db.Create(&question).Error)

	require.NoError(t, db.Create(&models.AwardInEvent{
		AwardID: award.ID,
		EventID: event.ID,
	}).Error)

	return question
}

func revealSubscription(t *testing.T, db *gorm.DB, subID string, order int) {
	t.Helper()
	require.NoError(t, db.Model(&models.Subscription{}).Where("id = ?", subID).
		Update("projection_order", order).Error)
}

func planSubscription(t *testing.T, db *gorm.DB, subID string, projectAt time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Subscription{}).Where("id = ?", subID).
		Updates(map[string]interface{}{
			"project_at": projectAt,
			"location":   "Screening Room A",
		}).Error)
}
