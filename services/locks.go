// File: /services/locks.go
package services

import (
	"sync"
)

// EventLocks hands out one mutex per event so that order assignment and
// invitation writes are serialized per event without blocking other events.
type EventLocks struct {
	mutex sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEventLocks() *EventLocks {
	return &EventLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// ForEvent returns the mutex for a given event, creating it on first use.
func (el *EventLocks) ForEvent(eventID string) *sync.Mutex {
	el.mutex.Lock()
	defer el.mutex.Unlock()

	lock, exists := el.locks[eventID]
	if !exists {
		lock = &sync.Mutex{}
		el.locks[eventID] = lock
	}

	return lock
}
