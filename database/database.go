// File: /database/database.go
package database

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cinefest-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Auto migrate all models
	err := db.AutoMigrate(
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
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Reveal candidates: valid subscriptions of an event with no order yet
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_subscriptions_event_valid ON subscriptions(event_id, is_valid, projection_order)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for subscriptions: %v\n", err)
	}

	// Owner's submission list
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_subscriptions_owner_created ON subscriptions(owner_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for subscriptions owner list: %v\n", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// The unique keys below back the application-level guards: the gorm tags
	// already declare them, the raw statements cover schemas migrated before
	// the tags existed.

	// One screening slot per rank per event
	if err := db.Exec("ALTER TABLE subscriptions ADD CONSTRAINT uk_subscriptions_event_order UNIQUE (event_id, projection_order)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add unique constraint for subscriptions: %v\n", err)
	}

	// One vote per participant per question per subscription
	if err := db.Exec("ALTER TABLE answers ADD CONSTRAINT uk_answers_sub_user_question UNIQUE (question_id, user_id, subscription_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for answers: %v\n", err)
	}

	// One category assignment per participant per event
	if err := db.Exec("ALTER TABLE event_specifications ADD CONSTRAINT uk_event_specifications_event_participant UNIQUE (event_id, participant_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for event_specifications: %v\n", err)
	}

	// One invitation per user per event
	if err := db.Exec("ALTER TABLE event_participants ADD CONSTRAINT uk_event_participants_event_user UNIQUE (event_id, user_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for event_participants: %v\n", err)
	}

	// Ratings stay on the 0..100 scale
	if err := db.Exec("ALTER TABLE answers ADD CONSTRAINT ck_answers_value_range CHECK (value >= 0 AND value <= 100)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for answers: %v\n", err)
	}

	return nil
}

// SeedData can be used to populate the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return ""
		}
		return string(h)
	}

	testUsers := []models.User{
		{
			ID:       "user-god",
			Username: "festival_admin",
			Email:    "admin@cinefest.local",
			Password: hash("admin123"),
			Role:     models.RoleAdmin,
		},
		{
			ID:       "user-1",
			Username: "marta_k",
			Email:    "marta@cinefest.local",
			Password: hash("password1"),
			Role:     models.RoleParticipant,
		},
		{
			ID:       "user-2",
			Username: "daniel_v",
			Email:    "daniel@cinefest.local",
			Password: hash("password2"),
			Role:     models.RoleParticipant,
		},
		{
			ID:       "user-3",
			Username: "eszter_b",
			Email:    "eszter@cinefest.local",
			Password: hash("password3"),
			Role:     models.RoleParticipant,
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Username, err)
		}
	}

	testCategories := []models.Category{
		{
			ID:          "category-noir",
			Name:        "Film noir",
			Description: "Shadows, cigarettes and bad decisions.",
		},
		{
			ID:          "category-docu",
			Name:        "Documentary",
			Description: "True stories, honestly told.",
		},
		{
			ID:          "category-animation",
			Name:        "Animation",
			Description: "Anything drawn, rendered or stop-motioned.",
		},
	}

	for _, category := range testCategories {
		if err := db.Create(&category).Error; err != nil {
			fmt.Printf("Warning: Could not create test category %s: %v\n", category.Name, err)
		}
	}

	testEvent := models.Event{
		ID:                    "event-sample",
		Name:                  "Winter Screening Night",
		Description:           "Sample festival round for development.",
		IsActive:              true,
		SubscriptionExpiresAt: time.Now().Add(14 * 24 * time.Hour),
		ExpiresAt:             time.Now().Add(45 * 24 * time.Hour),
		NumberOfParticipants:  3,
	}
	if err := db.Create(&testEvent).Error; err != nil {
		fmt.Printf("Warning: Could not create test event: %v\n", err)
	}

	fmt.Println("Database seeded with test data")
	return nil
}
