// File: /jobs/event_expiry_job.go
package jobs

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"cinefest-api/models"
)

// EventExpiryJob handles periodic deactivation of events past their award date
type EventExpiryJob struct {
	db     *gorm.DB
	ticker *time.Ticker
	done   chan bool
}

// NewEventExpiryJob creates a new event expiry job
func NewEventExpiryJob(db *gorm.DB, interval time.Duration) *EventExpiryJob {
	return &EventExpiryJob{
		db:     db,
		ticker: time.NewTicker(interval),
		done:   make(chan bool),
	}
}

// Start begins the expiry job
func (j *EventExpiryJob) Start() {
	fmt.Println("Event expiry job started")

	go func() {
		// Run immediately on start
		j.expire()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.expire()
			case <-j.done:
				fmt.Println("Event expiry job stopped")
				return
			}
		}
	}()
}

// Stop stops the expiry job
func (j *EventExpiryJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *EventExpiryJob) expire() {
	result := j.db.Model(&models.Event{}).
		Where("is_active = ? AND expires_at < ?", true, time.Now()).
		Update("is_active", false)
	if result.Error != nil {
		fmt.Printf("Error during event expiry: %v\n", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		fmt.Printf("Deactivated %d expired events\n", result.RowsAffected)
	}
}
