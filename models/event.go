// File: /models/event.go
package models

import (
	"time"
)

type Event struct {
	ID                    string    `json:"id" gorm:"primaryKey;size:191"`
	Name                  string    `json:"name" gorm:"not null;size:255"`
	Description           string    `json:"description" gorm:"not null;type:text"`
	IsActive              bool      `json:"is_active" gorm:"default:true"`
	SubscriptionExpiresAt time.Time `json:"subscription_expires_at" gorm:"not null"`
	ExpiresAt             time.Time `json:"expires_at" gorm:"not null"`
	NumberOfParticipants  int       `json:"number_of_participants" gorm:"not null"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`

	Categories    []Category         `json:"categories,omitempty" gorm:"many2many:event_categories"`
	Participants  []EventParticipant `json:"participants,omitempty" gorm:"foreignKey:EventID"`
	Subscriptions []Subscription     `json:"subscriptions,omitempty" gorm:"foreignKey:EventID"`
	Awards        []AwardInEvent     `json:"awards,omitempty" gorm:"foreignKey:EventID"`
}

// SubmissionOpen reports whether new or edited subscriptions are still
// accepted for this event.
func (e *Event) SubmissionOpen(now time.Time) bool {
	return e.IsActive && now.Before(e.SubscriptionExpiresAt)
}

// HasCategory reports whether the category is attached to this event.
// Categories must be preloaded.
func (e *Event) HasCategory(categoryID string) bool {
	for _, c := range e.Categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

// HasParticipant reports whether the user has been invited to this event.
// Participants must be preloaded.
func (e *Event) HasParticipant(userID string) bool {
	for _, p := range e.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ExpectedVoters is the number of voters a subscription needs before it
// counts as fully rated. The owner never votes on their own entry.
func (e *Event) ExpectedVoters() int {
	if e.NumberOfParticipants <= 1 {
		return 0
	}
	return e.NumberOfParticipants - 1
}

type EventParticipant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   string    `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_event_participants_event_user"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_event_participants_event_user"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

// EventSpecification pins an invited participant to exactly one category
// within one event. Rows are written once by the invitation engine and
// never updated afterwards.
type EventSpecification struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	EventID       string    `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_event_specifications_event_participant"`
	ParticipantID string    `json:"participant_id" gorm:"not null;size:191;uniqueIndex:uk_event_specifications_event_participant"`
	CategoryID    string    `json:"category_id" gorm:"not null;size:191"`
	CreatedAt     time.Time `json:"created_at"`

	Category Category `json:"category" gorm:"foreignKey:CategoryID"`
}
