// File: /models/subscription.go
package models

import (
	"time"
)

// SubscriptionState is the single authority over a subscription's lifecycle.
// It is computed from canonical fields (projection order assigned, projection
// time elapsed, votes complete); the individual booleans exposed in the read
// model are projections of it and are never stored independently.
type SubscriptionState string

const (
	StateHidden     SubscriptionState = "HIDDEN"
	StateRevealed   SubscriptionState = "REVEALED"
	StateRatingOpen SubscriptionState = "RATING_OPEN"
	StateRated      SubscriptionState = "RATED"
)

type Subscription struct {
	ID              string     `json:"id" gorm:"primaryKey;size:191"`
	OwnerID         string     `json:"owner_id" gorm:"not null;size:191;index"`
	EventID         string     `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_subscriptions_event_order"`
	CategoryID      string     `json:"category_id" gorm:"not null;size:191"`
	MovieName       string     `json:"movie_name" gorm:"not null;size:255"`
	IsValid         bool       `json:"is_valid" gorm:"default:false"`
	ProjectionOrder *int       `json:"projection_order" gorm:"uniqueIndex:uk_subscriptions_event_order"`
	ProjectAt       *time.Time `json:"project_at"`
	Location        *string    `json:"location" gorm:"size:255"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Owner    User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Event    Event    `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// Revealed reports whether the subscription has been drawn by the reveal
// scheduler and assigned a projection order.
func (s *Subscription) Revealed() bool {
	return s.ProjectionOrder != nil
}

// ProjectionPlanned reports whether a screening date has been recorded.
func (s *Subscription) ProjectionPlanned() bool {
	return s.ProjectAt != nil
}

// RatingOpen reports whether voters may rate the subscription: the screening
// must have been planned and its time must have passed.
func (s *Subscription) RatingOpen(now time.Time) bool {
	return s.Revealed() && s.ProjectAt != nil && !now.Before(*s.ProjectAt)
}

// PlanningLocked reports whether the projection planning can no longer be
// edited. Once the scheduled time has elapsed the plan is frozen.
func (s *Subscription) PlanningLocked(now time.Time) bool {
	return s.ProjectAt != nil && !now.Before(*s.ProjectAt)
}

// State derives the lifecycle state. votesReceived is the number of distinct
// voters that have answered; expectedVoters comes from the event capacity.
func (s *Subscription) State(now time.Time, votesReceived, expectedVoters int) SubscriptionState {
	switch {
	case !s.Revealed():
		return StateHidden
	case !s.RatingOpen(now):
		return StateRevealed
	case expectedVoters > 0 && votesReceived >= expectedVoters:
		return StateRated
	default:
		return StateRatingOpen
	}
}

// SubscriptionView is the read model served to clients. Hidden subscriptions
// are redacted: nothing but their existence leaks before the reveal.
type SubscriptionView struct {
	ID                   string            `json:"id"`
	OwnerID              string            `json:"owner_id,omitempty"`
	EventID              string            `json:"event_id"`
	CategoryID           string            `json:"category_id,omitempty"`
	MovieName            string            `json:"movie_name,omitempty"`
	IsValid              bool              `json:"is_valid"`
	IsProjectionPlanned  bool              `json:"is_projection_planned"`
	IsReadyForProjection bool              `json:"is_ready_for_projection"`
	IsReadyForRating     bool              `json:"is_ready_for_rating"`
	ProjectAt            *time.Time        `json:"project_at,omitempty"`
	Location             *string           `json:"location,omitempty"`
	ProjectionOrder      *int              `json:"projection_order,omitempty"`
	State                SubscriptionState `json:"state"`
	VotesReceived        int               `json:"votes_received"`
	ExpectedVoters       int               `json:"expected_voters"`
}

// View builds the full read model for a revealed subscription, or for an
// administrator who may see everything.
func (s *Subscription) View(now time.Time, votesReceived, expectedVoters int) SubscriptionView {
	return SubscriptionView{
		ID:                   s.ID,
		OwnerID:              s.OwnerID,
		EventID:              s.EventID,
		CategoryID:           s.CategoryID,
		MovieName:            s.MovieName,
		IsValid:              s.IsValid,
		IsProjectionPlanned:  s.ProjectionPlanned(),
		IsReadyForProjection: s.Revealed(),
		IsReadyForRating:     s.RatingOpen(now),
		ProjectAt:            s.ProjectAt,
		Location:             s.Location,
		ProjectionOrder:      s.ProjectionOrder,
		State:                s.State(now, votesReceived, expectedVoters),
		VotesReceived:        votesReceived,
		ExpectedVoters:       expectedVoters,
	}
}

// RedactedView exposes only the existence of a hidden subscription.
func (s *Subscription) RedactedView() SubscriptionView {
	return SubscriptionView{
		ID:      s.ID,
		EventID: s.EventID,
		IsValid: s.IsValid,
		State:   StateHidden,
	}
}
