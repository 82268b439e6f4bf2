// File: /models/user.go
package models

import (
	"time"
)

const (
	RoleAdmin       = "GOD"
	RoleParticipant = "PARTICIPANT"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string    `json:"-" gorm:"not null;size:255"`
	Role      string    `json:"role" gorm:"not null;size:20;default:'PARTICIPANT'"`
	AvatarURL *string   `json:"avatar_url" gorm:"size:500"`
	Note      *string   `json:"note" gorm:"size:500"`
	Deleted   bool      `json:"deleted" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Subscriptions []Subscription `json:"subscriptions,omitempty" gorm:"foreignKey:OwnerID"`
}
