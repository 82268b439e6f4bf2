// File: /services/rating_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"cinefest-api/models"
)

// ratingFixture is an event with three participants, one award question and a
// subscription of alice's that is open for rating.
type ratingFixture struct {
	event    models.Event
	question models.Question
	sub      models.Subscription
	alice    models.User
	bob      models.User
	carol    models.User
}

func newRatingFixture(t *testing.T, db *gorm.DB) ratingFixture {
	category := createTestCategory(t, db, "Drama")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	event := createTestEvent(t, db, []models.Category{category}, []models.User{alice, bob, carol}, 3)

	sub := createTestSubscription(t, db, event, alice, category)
	question := createTestAward(t, db, event, 1)

	revealSubscription(t, db, sub.ID, 1)
	planSubscription(t, db, sub.ID, time.Now().Add(-time.Hour))

	return ratingFixture{
		event:    event,
		question: question,
		sub:      sub,
		alice:    alice,
		bob:      bob,
		carol:    carol,
	}
}

func TestRateRecordsAnswers(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)

	service := NewRatingService(db, &stubNotifier{})

	answers, err := service.Rate(fx.bob.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 87},
	})
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, 87, answers[0].Value)

	received, expected, err := service.Progress(fx.sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, received)
	assert.Equal(t, 2, expected)
}

func TestRateDuplicateVoteLeavesFirstAnswersUnchanged(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)

	service := NewRatingService(db, &stubNotifier{})

	_, err := service.Rate(fx.bob.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 40},
	})
	require.NoError(t, err)

	_, err = service.Rate(fx.bob.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 95},
	})
	assert.ErrorIs(t, err, ErrDuplicateVote)

	var stored []models.Answer
	require.NoError(t, db.Where("subscription_id = ? AND user_id = ?", fx.sub.ID, fx.bob.ID).
		Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, 40, stored[0].Value)
}

func TestRateSelfVoteRejected(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)

	service := NewRatingService(db, &stubNotifier{})

	_, err := service.Rate(fx.alice.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 100},
	})
	assert.ErrorIs(t, err, ErrSelfVote)
}

func TestRateNonParticipantForbidden(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)
	outsider := createTestUser(t, db, "mallory")

	service := NewRatingService(db, &stubNotifier{})

	_, err := service.Rate(outsider.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 50},
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRateIncompleteAnswerSet(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)
	second := createTestAward(t, db, fx.event, 2)

	service := NewRatingService(db, &stubNotifier{})

	// Missing the second question
	_, err := service.Rate(fx.bob.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 70},
	})
	assert.ErrorIs(t, err, ErrIncompleteAnswerSet)

	// Unknown extra question
	_, err = service.Rate(fx.bob.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 70},
		{QuestionID: second.ID, Value: 60},
		{QuestionID: "not-an-event-question", Value: 10},
	})
	assert.ErrorIs(t, err, ErrIncompleteAnswerSet)

	// Nothing was written by the rejected attempts
	var count int64
	require.NoError(t, db.Model(&models.Answer{}).
		Where("subscription_id = ?", fx.sub.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRateValueOutOfRange(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)

	service := NewRatingService(db, &stubNotifier{})

	_, err := service.Rate(fx.bob.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 101},
	})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = service.Rate(fx.bob.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: -1},
	})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRateBeforeScreeningRejected(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)

	// Push the screening back into the future
	planSubscription(t, db, fx.sub.ID, time.Now().Add(time.Hour))

	service := NewRatingService(db, &stubNotifier{})

	_, err := service.Rate(fx.bob.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 50},
	})
	assert.ErrorIs(t, err, ErrNotRatingOpen)
}

// With capacity 3 everyone but the owner must vote: two voters complete the
// rating and flip the derived state to rated.
func TestRatingCompletion(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)

	service := NewRatingService(db, &stubNotifier{})

	for _, voter := range []models.User{fx.bob, fx.carol} {
		_, err := service.Rate(voter.ID, fx.sub.ID, []models.AnswerInput{
			{QuestionID: fx.question.ID, Value: 80},
		})
		require.NoError(t, err)
	}

	received, expected, err := service.Progress(fx.sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, received)
	assert.Equal(t, 2, expected)

	var sub models.Subscription
	require.NoError(t, db.First(&sub, "id = ?", fx.sub.ID).Error)
	assert.Equal(t, models.StateRated, sub.State(time.Now(), received, expected))
}

func TestInviteToFulfillRemindsOnlyPendingVoters(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)

	notifier := &stubNotifier{}
	service := NewRatingService(db, notifier)

	_, err := service.Rate(fx.bob.ID, fx.sub.ID, []models.AnswerInput{
		{QuestionID: fx.question.ID, Value: 80},
	})
	require.NoError(t, err)

	require.NoError(t, service.InviteToFulfill(fx.sub.ID))

	// Dispatch runs in a goroutine
	require.Eventually(t, func() bool {
		return notifier.ratingReminderCount() == 1
	}, time.Second, 10*time.Millisecond)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{fx.carol.Email}, notifier.ratingReminders)
}

func TestInviteToFulfillRequiresRatingOpen(t *testing.T) {
	db := openTestDB(t)
	fx := newRatingFixture(t, db)

	planSubscription(t, db, fx.sub.ID, time.Now().Add(time.Hour))

	service := NewRatingService(db, &stubNotifier{})
	assert.ErrorIs(t, service.InviteToFulfill(fx.sub.ID), ErrNotRatingOpen)
}
