// File: /utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinefest-api/services"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// DocsResponse is the list payload shape the clients consume.
type DocsResponse struct {
	Docs interface{} `json:"docs"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

func SendDocs(c *gin.Context, docs interface{}) {
	c.JSON(http.StatusOK, DocsResponse{Docs: docs})
}

// StatusForError maps domain errors to HTTP statuses: preconditions and
// validation report 400, permission problems 403, missing entities 404,
// conflicts (duplicate vote, blocked delete) 409.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrSelfVote):
		return http.StatusForbidden
	case errors.Is(err, services.ErrDuplicateVote),
		errors.Is(err, services.ErrHasAnswers):
		return http.StatusConflict
	case errors.Is(err, services.ErrSubmissionWindowClosed),
		errors.Is(err, services.ErrWindowStillOpen),
		errors.Is(err, services.ErrRevealStarted),
		errors.Is(err, services.ErrInsufficientParticipants),
		errors.Is(err, services.ErrNotRevealedYet),
		errors.Is(err, services.ErrPlanningLocked),
		errors.Is(err, services.ErrNotRatingOpen),
		errors.Is(err, services.ErrCategoryMismatch),
		errors.Is(err, services.ErrIncompleteAnswerSet),
		errors.Is(err, services.ErrOutOfRange),
		errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// SendServiceError reports a domain error with its mapped status. Unknown
// errors are masked as a generic internal error.
func SendServiceError(c *gin.Context, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		SendError(c, status, "Internal server error")
		return
	}
	SendError(c, status, err.Error())
}
