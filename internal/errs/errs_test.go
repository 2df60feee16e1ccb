package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
)

func TestUserMessage(t *testing.T) {
	status := func(code int) error {
		return &apiclient.StatusError{Method: http.MethodGet, Path: "/x", StatusCode: code}
	}

	tests := []struct {
		name   string
		err    error
		action errs.Action
		want   string
	}{
		{"Nil", nil, errs.ActionLoad, ""},
		{"Validation", fmt.Errorf("wrapped: %w", errs.NewValidationError("amount", "Amount must be a positive number.")), errs.ActionSave, "Amount must be a positive number."},
		{"Unauthorized", status(http.StatusUnauthorized), errs.ActionLoad, "You are not logged in."},
		{"NotFoundLoad", status(http.StatusNotFound), errs.ActionLoad, "Failed to load: not found."},
		{"NotFoundSave", status(http.StatusNotFound), errs.ActionSave, "It no longer exists. Refresh and try again."},
		{"TransientLoad", status(http.StatusInternalServerError), errs.ActionLoad, "Failed to load data."},
		{"TransientSave", errors.New("connection reset"), errs.ActionSave, "Something went wrong. Please try again."},
		{"TransientDelete", status(http.StatusBadGateway), errs.ActionDelete, "Failed to delete. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errs.UserMessage(tt.err, tt.action))
		})
	}
}
