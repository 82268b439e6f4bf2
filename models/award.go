// File: /models/award.go
package models

import (
	"time"
)

type Award struct {
	ID          string    `json:"id" gorm:"primaryKey;size:191"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Question Question `json:"question" gorm:"foreignKey:AwardID"`
}

// Question is the single rating prompt attached to an award. Ordinal sets
// the position of the question in the rating form.
type Question struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Ordinal   int       `json:"ordinal" gorm:"not null"`
	Text      string    `json:"text" gorm:"not null;type:text"`
	AwardID   string    `json:"award_id" gorm:"not null;size:191;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AwardInEvent links an award to an event. The winner is filled in by the
// award computation once all ratings are collected.
type AwardInEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AwardID   string    `json:"award_id" gorm:"not null;size:191;uniqueIndex:uk_awards_in_event_award_event"`
	EventID   string    `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_awards_in_event_award_event"`
	WinnerID  *string   `json:"winner_id" gorm:"size:191"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Award Award `json:"award" gorm:"foreignKey:AwardID"`
}

const (
	MinAnswerValue = 0
	MaxAnswerValue = 100
)

// Answer is one voter's numeric rating for one question on one subscription.
// Answers are immutable: no update or delete surface exists once submitted.
type Answer struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	QuestionID     string    `json:"question_id" gorm:"not null;size:191;uniqueIndex:uk_answers_sub_user_question"`
	UserID         string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_answers_sub_user_question"`
	SubscriptionID string    `json:"subscription_id" gorm:"not null;size:191;uniqueIndex:uk_answers_sub_user_question;index"`
	Value          int       `json:"value" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnswerInput is one (question, value) pair supplied by a voter.
type AnswerInput struct {
	QuestionID string `json:"question_id" binding:"required"`
	Value      int    `json:"value"`
}
