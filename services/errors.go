// File: /services/errors.go
package services

import "errors"

// Domain errors returned by the subscription lifecycle services. Controllers
// translate these into HTTP statuses; see utils.StatusForError.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// Precondition failures: no state change, not retried automatically.
	ErrSubmissionWindowClosed    = errors.New("submission window closed")
	ErrWindowStillOpen           = errors.New("submission window still open")
	ErrRevealStarted             = errors.New("reveal process already started")
	ErrInsufficientParticipants  = errors.New("more categories than invited participants")
	ErrNotRevealedYet            = errors.New("subscription not revealed yet")
	ErrPlanningLocked            = errors.New("projection planning is locked")
	ErrNotRatingOpen             = errors.New("subscription not open for rating")

	// Conflicts: the losing side of a race observes a clean rejection.
	ErrDuplicateVote = errors.New("already voted on this subscription")
	ErrHasAnswers    = errors.New("subscription has recorded answers")

	// Validation failures.
	ErrValidation          = errors.New("validation failed")
	ErrCategoryMismatch    = errors.New("category not allowed for this participant")
	ErrSelfVote            = errors.New("cannot vote on own subscription")
	ErrIncompleteAnswerSet = errors.New("answer set does not match the event's questions")
	ErrOutOfRange          = errors.New("answer value out of range")
)
