// File: /services/planning_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinefest-api/models"
)

func TestUpdatePlanning(t *testing.T) {
	db := openTestDB(t)

	category := createTestCategory(t, db, "Drama")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, []models.Category{category}, []models.User{alice, bob}, 2)
	sub := createTestSubscription(t, db, event, alice, category)
	revealSubscription(t, db, sub.ID, 1)

	notifier := &stubNotifier{}
	service := NewPlanningService(db, notifier)

	projectAt := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	updated, err := service.UpdatePlanning(sub.ID, projectAt, "Main Hall")
	require.NoError(t, err)

	require.NotNil(t, updated.ProjectAt)
	assert.WithinDuration(t, projectAt, *updated.ProjectAt, time.Second)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Main Hall", *updated.Location)
	assert.True(t, updated.ProjectionPlanned())
	assert.False(t, updated.RatingOpen(time.Now()))

	// Every participant is informed
	require.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.projectionPlanned) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestUpdatePlanningBeforeReveal(t *testing.T) {
	db := openTestDB(t)

	category := createTestCategory(t, db, "Drama")
	alice := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, []models.Category{category}, []models.User{alice}, 2)
	sub := createTestSubscription(t, db, event, alice, category)

	service := NewPlanningService(db, &stubNotifier{})

	_, err := service.UpdatePlanning(sub.ID, time.Now().Add(time.Hour), "Main Hall")
	assert.ErrorIs(t, err, ErrNotRevealedYet)
}

func TestUpdatePlanningReplanBeforeScreening(t *testing.T) {
	db := openTestDB(t)

	category := createTestCategory(t, db, "Drama")
	alice := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, []models.Category{category}, []models.User{alice}, 2)
	sub := createTestSubscription(t, db, event, alice, category)
	revealSubscription(t, db, sub.ID, 1)

	service := NewPlanningService(db, &stubNotifier{})

	_, err := service.UpdatePlanning(sub.ID, time.Now().Add(24*time.Hour), "Main Hall")
	require.NoError(t, err)

	// The screening has not happened yet, the plan may still move
	updated, err := service.UpdatePlanning(sub.ID, time.Now().Add(72*time.Hour), "Rooftop")
	require.NoError(t, err)
	assert.Equal(t, "Rooftop", *updated.Location)
}

func TestUpdatePlanningLockedAfterScreening(t *testing.T) {
	db := openTestDB(t)

	category := createTestCategory(t, db, "Drama")
	alice := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, []models.Category{category}, []models.User{alice}, 2)
	sub := createTestSubscription(t, db, event, alice, category)
	revealSubscription(t, db, sub.ID, 1)
	past := time.Now().Add(-time.Hour)
	planSubscription(t, db, sub.ID, past)

	service := NewPlanningService(db, &stubNotifier{})

	_, err := service.UpdatePlanning(sub.ID, time.Now().Add(time.Hour), "Somewhere Else")
	assert.ErrorIs(t, err, ErrPlanningLocked)

	// Fields untouched by the rejected attempt
	var reloaded models.Subscription
	require.NoError(t, db.First(&reloaded, "id = ?", sub.ID).Error)
	require.NotNil(t, reloaded.ProjectAt)
	assert.WithinDuration(t, past, *reloaded.ProjectAt, time.Second)
	assert.Equal(t, "Screening Room A", *reloaded.Location)
}

func TestUpdatePlanningRejectsPastDate(t *testing.T) {
	db := openTestDB(t)

	category := createTestCategory(t, db, "Drama")
	alice := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, []models.Category{category}, []models.User{alice}, 2)
	sub := createTestSubscription(t, db, event, alice, category)
	revealSubscription(t, db, sub.ID, 1)

	service := NewPlanningService(db, &stubNotifier{})

	_, err := service.UpdatePlanning(sub.ID, time.Now().Add(-time.Minute), "Main Hall")
	assert.ErrorIs(t, err, ErrValidation)
}
