package errs

import (
	"errors"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
)

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// ValidationError is a client-side form check that failed before any
// request was made. Message is meant for the user.
type ValidationError struct {
	ErrorMessage
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
		Field:        field,
	}
}

// Action selects the generic wording for failures outside the known classes.
type Action string

const (
	ActionLoad   Action = "load"
	ActionSave   Action = "save"
	ActionDelete Action = "delete"
)

// UserMessage renders err for display in the view that triggered it.
func UserMessage(err error, action Action) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	switch {
	case apiclient.IsUnauthorized(err):
		return "You are not logged in."
	case apiclient.IsNotFound(err) && action == ActionLoad:
		return "Failed to load: not found."
	case apiclient.IsNotFound(err):
		return "It no longer exists. Refresh and try again."
	}

	switch action {
	case ActionLoad:
		return "Failed to load data."
	case ActionDelete:
		return "Failed to delete. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
