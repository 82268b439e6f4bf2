// File: /services/invitation_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinefest-api/models"
)

func TestInviteParticipantsAssignsEveryone(t *testing.T) {
	db := openTestDB(t)

	categories := []models.Category{
		createTestCategory(t, db, "Drama"),
		createTestCategory(t, db, "Comedy"),
	}
	users := []models.User{
		createTestUser(t, db, "alice"),
		createTestUser(t, db, "bob"),
		createTestUser(t, db, "carol"),
	}
	event := createTestEvent(t, db, categories, users, 3)

	notifier := &stubNotifier{}
	service := NewInvitationService(db, NewEventLocks(), notifier)

	require.NoError(t, service.InviteParticipants(event.ID))

	var specs []models.EventSpecification
	require.NoError(t, db.Where("event_id = ?", event.ID).Find(&specs).Error)
	require.Len(t, specs, 3)

	valid := map[string]bool{categories[0].ID: true, categories[1].ID: true}
	assignedTo := map[string]bool{}
	for _, spec := range specs {
		assert.True(t, valid[spec.CategoryID])
		assignedTo[spec.ParticipantID] = true
	}
	for _, u := range users {
		assert.True(t, assignedTo[u.ID])
	}

	require.Eventually(t, func() bool {
		return notifier.categoryAssignedCount() == 3
	}, time.Second, 10*time.Millisecond)
}

func TestInviteParticipantsMoreCategoriesThanParticipants(t *testing.T) {
	db := openTestDB(t)

	categories := []models.Category{
		createTestCategory(t, db, "Drama"),
		createTestCategory(t, db, "Comedy"),
		createTestCategory(t, db, "Horror"),
	}
	users := []models.User{
		createTestUser(t, db, "alice"),
		createTestUser(t, db, "bob"),
	}
	event := createTestEvent(t, db, categories, users, 2)

	notifier := &stubNotifier{}
	service := NewInvitationService(db, NewEventLocks(), notifier)

	err := service.InviteParticipants(event.ID)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	// All-or-nothing: no assignment was written
	var count int64
	require.NoError(t, db.Model(&models.EventSpecification{}).
		Where("event_id = ?", event.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, notifier.categoryAssignedCount())
}

func TestInviteParticipantsIdempotentPerParticipant(t *testing.T) {
	db := openTestDB(t)

	category := createTestCategory(t, db, "Drama")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, []models.Category{category}, []models.User{alice}, 2)

	service := NewInvitationService(db, NewEventLocks(), &stubNotifier{})
	require.NoError(t, service.InviteParticipants(event.ID))

	var first models.EventSpecification
	require.NoError(t, db.Where("event_id = ? AND participant_id = ?", event.ID, alice.ID).
		First(&first).Error)

	// A later invitee gets assigned on re-invoke; alice keeps her pinning
	require.NoError(t, db.Create(&models.EventParticipant{
		EventID: event.ID,
		UserID:  bob.ID,
	}).Error)
	require.NoError(t, service.InviteParticipants(event.ID))

	var specs []models.EventSpecification
	require.NoError(t, db.Where("event_id = ?", event.ID).Find(&specs).Error)
	require.Len(t, specs, 2)

	var again models.EventSpecification
	require.NoError(t, db.Where("event_id = ? AND participant_id = ?", event.ID, alice.ID).
		First(&again).Error)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.CategoryID, again.CategoryID)
}

func TestInviteParticipantsNeedsCategories(t *testing.T) {
	db := openTestDB(t)

	alice := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, nil, []models.User{alice}, 2)

	service := NewInvitationService(db, NewEventLocks(), &stubNotifier{})
	assert.ErrorIs(t, service.InviteParticipants(event.ID), ErrValidation)
}

func TestInviteParticipantsAfterWindowClosed(t *testing.T) {
	db := openTestDB(t)

	category := createTestCategory(t, db, "Drama")
	alice := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, []models.Category{category}, []models.User{alice}, 2)
	closeSubmissionWindow(t, db, event.ID)

	service := NewInvitationService(db, NewEventLocks(), &stubNotifier{})
	assert.ErrorIs(t, service.InviteParticipants(event.ID), ErrSubmissionWindowClosed)
}
